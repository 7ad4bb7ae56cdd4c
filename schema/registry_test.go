package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremap/naming"
	"wiremap/schema"
)

type nic struct {
	IPAddress string
	Mac       string
}

type server struct {
	Name    string
	SizeGb  int
	Running bool
	Meta    any
	Nics    []nic
}

func serverDecl() schema.ModelDecl {
	return schema.ModelDecl{
		Name:      "Server",
		Overrides: naming.Overrides{"size_gb": "SizeGB"},
		Fields: []schema.FieldDecl{
			{Attribute: "name", Type: "string"},
			{Attribute: "sizeGb", Type: "int"},
			{Attribute: "running", Type: "bool"},
			{Attribute: "meta"},
			{Attribute: "nics", Type: "Nic", Sequence: true},
		},
	}
}

func nicDecl() schema.ModelDecl {
	return schema.ModelDecl{
		Name: "Nic",
		Fields: []schema.FieldDecl{
			{Attribute: "ipAddress", Type: "string"},
			{Attribute: "mac", Type: "string"},
		},
	}
}

func TestRegisterBindsFields(t *testing.T) {
	reg := schema.NewRegistry()

	sch, err := reg.Register(serverDecl(), server{})
	require.NoError(t, err)

	fd, ok := sch.Describe("sizeGb")
	require.True(t, ok)
	assert.Equal(t, schema.KindInt, fd.Kind)
	assert.False(t, fd.Sequence)

	fd, ok = sch.Describe("nics")
	require.True(t, ok)
	assert.Equal(t, schema.KindModel, fd.Kind)
	assert.Equal(t, "Nic", fd.Model)
	assert.True(t, fd.Sequence)

	_, ok = sch.Describe("undeclared")
	assert.False(t, ok)
}

func TestRegisterAcceptsPointerPrototype(t *testing.T) {
	reg := schema.NewRegistry()

	sch, err := reg.Register(nicDecl(), &nic{})
	require.NoError(t, err)
	assert.Equal(t, "Nic", sch.Name)
}

func TestRegisterRejectsDrift(t *testing.T) {
	type bad struct {
		Name int // declared string below
	}

	reg := schema.NewRegistry()
	decl := schema.ModelDecl{
		Name:   "Bad",
		Fields: []schema.FieldDecl{{Attribute: "name", Type: "string"}},
	}

	_, err := reg.Register(decl, bad{})
	assert.ErrorIs(t, err, schema.ErrFieldType)
}

func TestRegisterRejectsUnboundAttribute(t *testing.T) {
	reg := schema.NewRegistry()
	decl := schema.ModelDecl{
		Name:   "Bad",
		Fields: []schema.FieldDecl{{Attribute: "missing", Type: "string"}},
	}

	_, err := reg.Register(decl, nic{})
	assert.ErrorIs(t, err, schema.ErrFieldUnbound)
}

func TestRegisterRejectsScalarSequence(t *testing.T) {
	type bad struct{ Tags []string }

	reg := schema.NewRegistry()
	decl := schema.ModelDecl{
		Name:   "Bad",
		Fields: []schema.FieldDecl{{Attribute: "tags", Type: "string", Sequence: true}},
	}

	_, err := reg.Register(decl, bad{})
	assert.ErrorIs(t, err, schema.ErrFieldType)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := schema.NewRegistry()

	_, err := reg.Register(nicDecl(), nic{})
	require.NoError(t, err)

	_, err = reg.Register(nicDecl(), nic{})
	assert.ErrorIs(t, err, schema.ErrDuplicateModel)
}

func TestRegisterRejectsDuplicateAttributes(t *testing.T) {
	reg := schema.NewRegistry()
	decl := schema.ModelDecl{
		Name: "Nic",
		Fields: []schema.FieldDecl{
			{Attribute: "mac", Type: "string"},
			{Attribute: "mac", Type: "string"},
		},
	}

	_, err := reg.Register(decl, nic{})
	assert.ErrorIs(t, err, schema.ErrDuplicateAttribute)

	err = schema.ValidateDecls([]schema.ModelDecl{decl})
	assert.ErrorIs(t, err, schema.ErrDuplicateAttribute)
}

func TestValidateResolvesReferences(t *testing.T) {
	reg := schema.NewRegistry()
	reg.MustRegister(serverDecl(), server{})

	err := reg.Validate()
	assert.ErrorIs(t, err, schema.ErrUnknownModel)

	reg.MustRegister(nicDecl(), nic{})
	assert.NoError(t, reg.Validate())
}

type folderA struct{ Child *folderB }

type folderB struct{ Child *folderA }

func TestValidateRejectsCycles(t *testing.T) {
	declA := schema.ModelDecl{Name: "FolderA", Fields: []schema.FieldDecl{{Attribute: "child", Type: "FolderB"}}}
	declB := schema.ModelDecl{Name: "FolderB", Fields: []schema.FieldDecl{{Attribute: "child", Type: "FolderA"}}}

	reg := schema.NewRegistry()
	reg.MustRegister(declA, folderA{})
	reg.MustRegister(declB, folderB{})

	err := reg.Validate()
	assert.ErrorIs(t, err, schema.ErrMetadataCycle)

	err = schema.ValidateDecls([]schema.ModelDecl{declA, declB})
	assert.ErrorIs(t, err, schema.ErrMetadataCycle)
}

func TestWireKeyOverridePrecedence(t *testing.T) {
	reg := schema.NewRegistry()
	sch := reg.MustRegister(serverDecl(), server{})

	assert.Equal(t, "SizeGB", sch.WireKey("sizeGb"))
	assert.Equal(t, "name", sch.WireKey("name"))

	assert.Equal(t, "sizeGb", sch.AttributeFor("SizeGB"))
	assert.Equal(t, "sizeGb", sch.AttributeFor("size_gb"))
	assert.Equal(t, "ipAddress", sch.AttributeFor("ip_address"))
}
