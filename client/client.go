// Package client is the SDK surface over the mapping core: it sends
// requests through a pluggable Transport, encodes bodies with the
// serializer and decodes envelopes into registered models.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"wiremap/envelope"
	"wiremap/mapper"
	"wiremap/schema"
)

// ErrRequestFailed marks a non-2xx transport status.
var ErrRequestFailed = errors.New("api request failed")

type Client struct {
	transport Transport
	dec       *envelope.Decoder
	ser       *mapper.Serializer
	log       *slog.Logger
}

// New builds a client over the given transport and model registry.
// A nil logger falls back to slog.Default.
func New(transport Transport, reg *schema.Registry, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		transport: transport,
		dec:       envelope.NewDecoder(mapper.NewInstantiator(reg)),
		ser:       mapper.NewSerializer(reg),
		log:       log,
	}
}

// List fetches path and decodes the response elements as the named
// model. Pagination passes through on the result; query carries
// paging and filter parameters and may be nil.
func (c *Client) List(ctx context.Context, path, model, wrapperKey string, query url.Values) (envelope.ListResult, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return envelope.ListResult{}, err
	}

	return c.dec.DecodeList(resp.Body, resp.Headers, model, wrapperKey)
}

// Get fetches path and decodes exactly one response element.
func (c *Client) Get(ctx context.Context, path, model, wrapperKey string) (envelope.SingleResult, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return envelope.SingleResult{}, err
	}

	return c.dec.DecodeSingle(resp.Body, resp.Headers, model, wrapperKey)
}

// Create posts instance to path and decodes the created model back.
func (c *Client) Create(ctx context.Context, path string, instance any, model, wrapperKey string) (envelope.SingleResult, error) {
	body, err := c.encode(instance)
	if err != nil {
		return envelope.SingleResult{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return envelope.SingleResult{}, err
	}

	return c.dec.DecodeSingle(resp.Body, resp.Headers, model, wrapperKey)
}

// Update puts instance to path and decodes the updated model back.
func (c *Client) Update(ctx context.Context, path string, instance any, model, wrapperKey string) (envelope.SingleResult, error) {
	body, err := c.encode(instance)
	if err != nil {
		return envelope.SingleResult{}, err
	}

	resp, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return envelope.SingleResult{}, err
	}

	return c.dec.DecodeSingle(resp.Body, resp.Headers, model, wrapperKey)
}

// Delete issues a DELETE and returns the response headers.
func (c *Client) Delete(ctx context.Context, path string) (envelope.Headers, error) {
	resp, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return nil, err
	}

	return resp.Headers, nil
}

func (c *Client) encode(instance any) ([]byte, error) {
	wire, err := c.ser.WireObject(instance)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (Response, error) {
	started := time.Now()

	resp, err := c.transport.RoundTrip(ctx, Request{Method: method, Path: path, Query: query, Body: body})
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.DebugContext(ctx, "api call",
		"method", method,
		"path", path,
		"status", resp.Status,
		"elapsed", time.Since(started),
	)

	if resp.Status < http.StatusOK || resp.Status >= http.StatusMultipleChoices {
		return Response{}, fmt.Errorf("%s %s: status %d: %w", method, path, resp.Status, ErrRequestFailed)
	}

	return resp, nil
}
