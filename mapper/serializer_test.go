package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremap/mapper"
	"wiremap/schema"
)

func TestWireObjectEmitsDeclaredFieldsOnly(t *testing.T) {
	ser := mapper.NewSerializer(testRegistry(t))

	wire, err := ser.WireObject(&nic{IPAddress: "10.0.0.1", Mac: "aa"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"ip_address": "10.0.0.1",
		"mac":        "aa",
	}, wire)
}

func TestWireObjectOverridePrecedence(t *testing.T) {
	ser := mapper.NewSerializer(testRegistry(t))

	wire, err := ser.WireObject(server{Name: "web-1", SizeGb: 16})
	require.NoError(t, err)

	assert.Equal(t, 16, wire["SizeGB"])
	assert.NotContains(t, wire, "size_gb")
}

func TestWireObjectRecursesIntoNestedModels(t *testing.T) {
	ser := mapper.NewSerializer(testRegistry(t))

	wire, err := ser.WireObject(server{
		BootDrive: &drive{Name: "root", SizeGb: 80},
		Nics: []nic{
			{IPAddress: "10.0.0.1"},
			{IPAddress: "10.0.0.2"},
		},
	})
	require.NoError(t, err)

	boot, ok := wire["boot_drive"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "root", boot["name"])
	assert.Equal(t, 80, boot["size_gb"])

	nics, ok := wire["nics"].([]any)
	require.True(t, ok)
	require.Len(t, nics, 2)
	assert.Equal(t, "10.0.0.1", nics[0].(map[string]any)["ip_address"])
	assert.Equal(t, "10.0.0.2", nics[1].(map[string]any)["ip_address"])
}

func TestWireObjectNilNestedValues(t *testing.T) {
	ser := mapper.NewSerializer(testRegistry(t))

	wire, err := ser.WireObject(server{})
	require.NoError(t, err)

	assert.Nil(t, wire["boot_drive"])
	assert.Nil(t, wire["nics"])
}

func TestWireObjectRejectsUnregisteredType(t *testing.T) {
	ser := mapper.NewSerializer(testRegistry(t))

	type stranger struct{ Name string }

	_, err := ser.WireObject(stranger{})
	assert.ErrorIs(t, err, schema.ErrUnknownModel)
}

func TestRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	ins := mapper.NewInstantiator(reg)
	ser := mapper.NewSerializer(reg)

	orig := server{
		Name:     "web-1",
		SizeGb:   16,
		Running:  true,
		CPUShare: 0.5,
		Meta:     "zone-a",
		BootDrive: &drive{
			Name:   "root",
			SizeGb: 80,
		},
		Nics: []nic{
			{IPAddress: "10.0.0.1", Mac: "aa"},
			{IPAddress: "10.0.0.2", Mac: "bb"},
		},
	}

	wire, err := ser.WireObject(orig)
	require.NoError(t, err)

	back, err := ins.FromObject("Server", wire, "")
	require.NoError(t, err)

	assert.Equal(t, orig, *back.(*server))
}
