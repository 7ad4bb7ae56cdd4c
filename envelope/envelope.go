// Package envelope decodes the outer response shape every API payload
// arrives in: a JSON object carrying a "Response" array and, for list
// endpoints, a "Pagination" object. Inner elements are decoded through
// the mapper; pagination and response headers pass through untouched.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wiremap/mapper"
)

const (
	keyResponse   = "Response"
	keyPagination = "Pagination"
)

var (
	// ErrMalformedEnvelope marks a body that does not parse as a JSON
	// object carrying a "Response" key.
	ErrMalformedEnvelope = errors.New("malformed response envelope")

	// ErrUnexpectedResultCount marks a single-result decode that found
	// zero or more than one element: a server/contract mismatch the
	// caller cannot repair.
	ErrUnexpectedResultCount = errors.New("unexpected result count")
)

// Headers carries response headers through to the caller untouched.
type Headers map[string]string

// Decoder decodes envelopes, delegating element decoding to the
// instantiator.
type Decoder struct {
	ins *mapper.Instantiator
}

func NewDecoder(ins *mapper.Instantiator) *Decoder {
	return &Decoder{ins: ins}
}

// ListResult is the outcome of a list decode.
type ListResult struct {
	Models     []any
	Pagination any // raw pagination sub-object, untouched
	Headers    Headers
}

// SingleResult is the outcome of a single-object decode.
type SingleResult struct {
	Model      any
	Pagination any
	Headers    Headers
}

// ScalarResult is the outcome of a scalar-field decode.
type ScalarResult struct {
	Value   any
	Headers Headers
}

// DecodeList decodes body and maps every response element to the named
// model. When wrapperKey is non-empty, each element is unwrapped
// through that key; otherwise an element is either a single-key
// {"TypeName": {...}} pair whose key is discarded, or a direct field
// map. Element order is preserved.
func (d *Decoder) DecodeList(body string, headers Headers, model, wrapperKey string) (ListResult, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{
		Pagination: env.pagination,
		Headers:    headers,
	}

	if wrapperKey == "" {
		res.Models, err = d.ins.ListFromArray(model, env.response)
		if err != nil {
			return ListResult{}, err
		}

		return res, nil
	}

	res.Models = make([]any, 0, len(env.response))
	for i, el := range env.response {
		obj, ok := el.(map[string]any)
		if !ok {
			return ListResult{}, fmt.Errorf("element %d is not an object: %w", i, ErrMalformedEnvelope)
		}

		decoded, err := d.ins.FromObject(model, obj, wrapperKey)
		if err != nil {
			return ListResult{}, fmt.Errorf("element %d: %w", i, err)
		}

		res.Models = append(res.Models, decoded)
	}

	return res, nil
}

// DecodeSingle decodes body like DecodeList but demands exactly one
// response element.
func (d *Decoder) DecodeSingle(body string, headers Headers, model, wrapperKey string) (SingleResult, error) {
	list, err := d.DecodeList(body, headers, model, wrapperKey)
	if err != nil {
		return SingleResult{}, err
	}

	if len(list.Models) != 1 {
		return SingleResult{}, fmt.Errorf("expected exactly one result, got %d: %w",
			len(list.Models), ErrUnexpectedResultCount)
	}

	return SingleResult{
		Model:      list.Models[0],
		Pagination: list.Pagination,
		Headers:    headers,
	}, nil
}

// DecodeScalarField extracts the value stored under fieldKey in the
// single response element, for endpoints that answer with an
// identifier-like value instead of a full model.
func (d *Decoder) DecodeScalarField(body string, headers Headers, fieldKey string) (ScalarResult, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return ScalarResult{}, err
	}

	if len(env.response) != 1 {
		return ScalarResult{}, fmt.Errorf("expected exactly one result, got %d: %w",
			len(env.response), ErrUnexpectedResultCount)
	}

	obj, ok := env.response[0].(map[string]any)
	if !ok {
		return ScalarResult{}, fmt.Errorf("response element is not an object: %w", ErrMalformedEnvelope)
	}

	value, ok := obj[fieldKey]
	if !ok {
		return ScalarResult{}, fmt.Errorf("response element has no %q field: %w", fieldKey, ErrMalformedEnvelope)
	}

	return ScalarResult{Value: value, Headers: headers}, nil
}

type parsed struct {
	response   []any
	pagination any
}

// parseEnvelope decodes body into a generic tree. Numbers stay as
// json.Number so integer fields survive without precision loss.
func parseEnvelope(body string) (parsed, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return parsed{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	raw, ok := root[keyResponse]
	if !ok {
		return parsed{}, fmt.Errorf("%w: missing %q key", ErrMalformedEnvelope, keyResponse)
	}

	arr, ok := raw.([]any)
	if !ok {
		return parsed{}, fmt.Errorf("%w: %q is not an array", ErrMalformedEnvelope, keyResponse)
	}

	return parsed{response: arr, pagination: root[keyPagination]}, nil
}
