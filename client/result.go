package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"wiremap/envelope"
	"wiremap/mapper"
)

// ResultID is the numeric identifier marker some endpoints return
// instead of a full model.
type ResultID int64

// ResultUUID is the UUID identifier marker some endpoints return
// instead of a full model.
type ResultUUID = uuid.UUID

// GetID fetches path and extracts the numeric identifier stored under
// fieldKey in the single response element.
func (c *Client) GetID(ctx context.Context, path, fieldKey string) (ResultID, envelope.Headers, error) {
	res, err := c.scalar(ctx, path, fieldKey)
	if err != nil {
		return 0, nil, err
	}

	n, ok := res.Value.(json.Number)
	if !ok {
		return 0, nil, fmt.Errorf("%q is not a number: %w", fieldKey, mapper.ErrValueType)
	}

	id, err := n.Int64()
	if err != nil {
		return 0, nil, fmt.Errorf("%q: %w", fieldKey, mapper.ErrValueType)
	}

	return ResultID(id), res.Headers, nil
}

// GetUUID fetches path and extracts the UUID stored under fieldKey in
// the single response element.
func (c *Client) GetUUID(ctx context.Context, path, fieldKey string) (ResultUUID, envelope.Headers, error) {
	res, err := c.scalar(ctx, path, fieldKey)
	if err != nil {
		return uuid.Nil, nil, err
	}

	s, ok := res.Value.(string)
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("%q is not a string: %w", fieldKey, mapper.ErrValueType)
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%q: %w: %v", fieldKey, mapper.ErrValueType, err)
	}

	return id, res.Headers, nil
}

func (c *Client) scalar(ctx context.Context, path, fieldKey string) (envelope.ScalarResult, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return envelope.ScalarResult{}, err
	}

	return c.dec.DecodeScalarField(resp.Body, resp.Headers, fieldKey)
}
