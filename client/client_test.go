package client_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiremap/client"
	"wiremap/envelope"
	"wiremap/schema"
)

type drive struct {
	Name   string
	SizeGb int
}

// stubTransport answers every request with a canned response and
// records what it was asked to send.
type stubTransport struct {
	resp client.Response
	last client.Request
}

func (s *stubTransport) RoundTrip(_ context.Context, req client.Request) (client.Response, error) {
	s.last = req
	return s.resp, nil
}

func testClient(t *testing.T, resp client.Response) (*client.Client, *stubTransport) {
	t.Helper()

	reg := schema.NewRegistry()
	reg.MustRegister(schema.ModelDecl{
		Name: "Drive",
		Fields: []schema.FieldDecl{
			{Attribute: "name", Type: "string"},
			{Attribute: "sizeGb", Type: "int"},
		},
	}, drive{})
	require.NoError(t, reg.Validate())

	transport := &stubTransport{resp: resp}

	return client.New(transport, reg, nil), transport
}

func TestList(t *testing.T) {
	c, transport := testClient(t, client.Response{
		Status:  200,
		Body:    `{"Response":[{"Drive":{"name":"a"}},{"Drive":{"name":"b"}}],"Pagination":{"total":2}}`,
		Headers: envelope.Headers{"X-Request-Id": "r1"},
	})

	query := url.Values{"page_size": {"20"}, "page_number": {"1"}}

	res, err := c.List(context.Background(), "/drives", "Drive", "", query)
	require.NoError(t, err)

	assert.Equal(t, "GET", transport.last.Method)
	assert.Equal(t, "/drives", transport.last.Path)
	assert.Equal(t, query, transport.last.Query)

	require.Len(t, res.Models, 2)
	assert.Equal(t, "a", res.Models[0].(*drive).Name)
	assert.Equal(t, "b", res.Models[1].(*drive).Name)
	assert.Equal(t, "r1", res.Headers["X-Request-Id"])

	paging := client.PagingFrom(res.Pagination)
	assert.EqualValues(t, 2, paging.Total)
}

func TestGet(t *testing.T) {
	c, _ := testClient(t, client.Response{
		Status: 200,
		Body:   `{"Response":[{"Drive":{"name":"root","size_gb":80}}]}`,
	})

	res, err := c.Get(context.Background(), "/drives/1", "Drive", "")
	require.NoError(t, err)
	assert.Equal(t, &drive{Name: "root", SizeGb: 80}, res.Model)
}

func TestCreateSerializesBody(t *testing.T) {
	c, transport := testClient(t, client.Response{
		Status: 200,
		Body:   `{"Response":[{"Drive":{"name":"root","size_gb":80}}]}`,
	})

	_, err := c.Create(context.Background(), "/drives", drive{Name: "root", SizeGb: 80}, "Drive", "")
	require.NoError(t, err)

	assert.Equal(t, "POST", transport.last.Method)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(transport.last.Body, &sent))
	assert.Equal(t, "root", sent["name"])
	assert.EqualValues(t, 80, sent["size_gb"])
}

func TestDelete(t *testing.T) {
	c, transport := testClient(t, client.Response{
		Status:  204,
		Headers: envelope.Headers{"X-Request-Id": "r2"},
	})

	headers, err := c.Delete(context.Background(), "/drives/1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE", transport.last.Method)
	assert.Equal(t, "r2", headers["X-Request-Id"])
}

func TestNon2xxStatusFailsRequest(t *testing.T) {
	c, _ := testClient(t, client.Response{Status: 500, Body: "boom"})

	_, err := c.List(context.Background(), "/drives", "Drive", "", nil)
	assert.ErrorIs(t, err, client.ErrRequestFailed)
}

func TestGetID(t *testing.T) {
	c, _ := testClient(t, client.Response{
		Status: 200,
		Body:   `{"Response":[{"id":42}]}`,
	})

	id, _, err := c.GetID(context.Background(), "/drives/create", "id")
	require.NoError(t, err)
	assert.Equal(t, client.ResultID(42), id)
}

func TestGetUUID(t *testing.T) {
	c, _ := testClient(t, client.Response{
		Status: 200,
		Body:   `{"Response":[{"uuid":"9f3b42f2-7b44-4a7c-9f0e-2f6d3a1c5b21"}]}`,
	})

	id, _, err := c.GetUUID(context.Background(), "/drives/create", "uuid")
	require.NoError(t, err)
	assert.Equal(t, "9f3b42f2-7b44-4a7c-9f0e-2f6d3a1c5b21", id.String())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("WIREMAP_ENDPOINT", "https://api.example.test")
	t.Setenv("WIREMAP_API_KEY", "key")
	t.Setenv("WIREMAP_TIMEOUT", "5s")

	cfg, err := client.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.Endpoint)
	assert.Equal(t, "key", cfg.Key)
	assert.Equal(t, "5s", cfg.Timeout.String())
}
