// Package mapper converts between generic decoded JSON objects and the
// typed model structs declared in a schema.Registry. Decoding allocates
// models empty and populates them field by field; no constructor logic
// runs. Encoding walks the declared fields only.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"wiremap/schema"
)

// ErrValueType marks a wire value that does not fit the declared wire
// type of its field.
var ErrValueType = errors.New("wire value does not fit the declared wire type")

// Instantiator builds typed model values from generic decoded JSON
// objects, driven by the registered field metadata.
type Instantiator struct {
	reg *schema.Registry
}

func NewInstantiator(reg *schema.Registry) *Instantiator {
	return &Instantiator{reg: reg}
}

// FromObject builds a model from obj. When wrapperKey is non-empty the
// object is unwrapped through that key first; a missing or null wrapper
// yields a nil model and no error, since endpoints answer null for
// "not found". The returned value is a pointer to the schema's struct
// type.
//
// Wire keys that match no declared attribute are skipped. Null values
// and absent keys leave the attribute at its zero value.
func (ins *Instantiator) FromObject(model string, obj map[string]any, wrapperKey string) (any, error) {
	if wrapperKey != "" {
		inner, ok := obj[wrapperKey]
		if !ok || inner == nil {
			return nil, nil
		}

		m, ok := inner.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("wrapper %q does not hold an object: %w", wrapperKey, ErrValueType)
		}
		obj = m
	}

	if obj == nil {
		return nil, nil
	}

	sch, ok := ins.reg.Lookup(model)
	if !ok {
		return nil, fmt.Errorf("model %q: %w", model, schema.ErrUnknownModel)
	}

	out := reflect.New(sch.Type)
	elem := out.Elem()

	for key, raw := range obj {
		fd, ok := sch.Describe(sch.AttributeFor(key))
		if !ok {
			// Servers may send fields this model does not declare.
			continue
		}

		if raw == nil {
			continue
		}

		val, err := ins.fieldValue(fd, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", model, fd.Attribute, err)
		}

		elem.Field(fd.Index).Set(val)
	}

	return out.Interface(), nil
}

// ListFromArray maps each element of arr through FromObject, preserving
// input order. An element either is a direct field map or wraps one
// under a single irrelevant key (the wire format keys list entries by
// type name; only the value is used).
func (ins *Instantiator) ListFromArray(model string, arr []any) ([]any, error) {
	out := make([]any, 0, len(arr))

	for i, el := range arr {
		obj, err := elementObject(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		decoded, err := ins.FromObject(model, obj, "")
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out = append(out, decoded)
	}

	return out, nil
}

func (ins *Instantiator) fieldValue(fd schema.FieldDescriptor, raw any) (reflect.Value, error) {
	switch {
	case fd.Kind == schema.KindRaw:
		return reflect.ValueOf(raw), nil

	case fd.Kind.IsScalar():
		return scalarValue(fd, raw)

	case fd.Sequence:
		arr, ok := raw.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected an array, got %T: %w", raw, ErrValueType)
		}

		return ins.sequenceValue(fd, arr)

	default:
		obj, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected an object, got %T: %w", raw, ErrValueType)
		}

		decoded, err := ins.FromObject(fd.Model, obj, "")
		if err != nil {
			return reflect.Value{}, err
		}

		return adoptModel(fd.Type, decoded)
	}
}

func (ins *Instantiator) sequenceValue(fd schema.FieldDescriptor, arr []any) (reflect.Value, error) {
	out := reflect.MakeSlice(fd.Type, 0, len(arr))

	for i, el := range arr {
		obj, err := elementObject(el)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		decoded, err := ins.FromObject(fd.Model, obj, "")
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		ev, err := adoptModel(fd.Type.Elem(), decoded)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out = reflect.Append(out, ev)
	}

	return out, nil
}

// adoptModel fits the *T returned by FromObject into the declared field
// (or slice element) type, which may be T or *T.
func adoptModel(want reflect.Type, decoded any) (reflect.Value, error) {
	rv := reflect.ValueOf(decoded)
	if !rv.IsValid() {
		return reflect.Zero(want), nil
	}

	if want.Kind() == reflect.Pointer {
		return rv, nil
	}

	return rv.Elem(), nil
}

// elementObject strips the keying structure off a list element: a
// single-key map whose value is itself an object stands for that inner
// object; anything else must already be a field map.
func elementObject(el any) (map[string]any, error) {
	m, ok := el.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T: %w", el, ErrValueType)
	}

	if len(m) == 1 {
		for _, v := range m {
			if inner, ok := v.(map[string]any); ok {
				return inner, nil
			}
		}
	}

	return m, nil
}

func scalarValue(fd schema.FieldDescriptor, raw any) (reflect.Value, error) {
	if n, ok := raw.(json.Number); ok {
		return numberValue(fd, n)
	}

	rv := reflect.ValueOf(raw)

	switch fd.Kind {
	case schema.KindString:
		if rv.Kind() == reflect.String {
			return rv.Convert(fd.Type), nil
		}

	case schema.KindBool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(fd.Type), nil
		}

	case schema.KindInt:
		if isNumericKind(rv.Kind()) {
			return integerValue(fd, rv)
		}

	case schema.KindFloat:
		if isNumericKind(rv.Kind()) {
			return floatValue(fd, floatOf(rv))
		}
	}

	return reflect.Value{}, fmt.Errorf("%v into %s field: %w", raw, fd.Kind, ErrValueType)
}

func numberValue(fd schema.FieldDescriptor, n json.Number) (reflect.Value, error) {
	switch fd.Kind {
	case schema.KindInt:
		out := reflect.New(fd.Type).Elem()

		if isUnsignedKind(fd.Type.Kind()) {
			u, err := strconv.ParseUint(n.String(), 10, 64)
			if err != nil || out.OverflowUint(u) {
				return reflect.Value{}, fmt.Errorf("%q into %s field: %w", n, fd.Type, ErrValueType)
			}

			out.SetUint(u)
			return out, nil
		}

		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil || out.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%q into %s field: %w", n, fd.Type, ErrValueType)
		}

		out.SetInt(i)
		return out, nil

	case schema.KindFloat:
		f, err := n.Float64()
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q into %s field: %w", n, fd.Kind, ErrValueType)
		}

		return floatValue(fd, f)
	}

	return reflect.Value{}, fmt.Errorf("number %q into %s field: %w", n, fd.Kind, ErrValueType)
}

// integerValue fits an in-memory numeric value into an integer field,
// rejecting anything the field cannot hold exactly: out-of-range
// values, negatives into unsigned fields and fractional floats.
func integerValue(fd schema.FieldDescriptor, rv reflect.Value) (reflect.Value, error) {
	out := reflect.New(fd.Type).Elem()

	if isUnsignedKind(fd.Type.Kind()) {
		var u uint64

		switch {
		case isUnsignedKind(rv.Kind()):
			u = rv.Uint()
		case isSignedKind(rv.Kind()):
			i := rv.Int()
			if i < 0 {
				return reflect.Value{}, fmt.Errorf("%d into %s field: %w", i, fd.Type, ErrValueType)
			}
			u = uint64(i)
		default:
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= float64(math.MaxUint64) {
				return reflect.Value{}, fmt.Errorf("%v into %s field: %w", f, fd.Type, ErrValueType)
			}
			u = uint64(f)
		}

		if out.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%d into %s field: %w", u, fd.Type, ErrValueType)
		}

		out.SetUint(u)
		return out, nil
	}

	var i int64

	switch {
	case isSignedKind(rv.Kind()):
		i = rv.Int()
	case isUnsignedKind(rv.Kind()):
		u := rv.Uint()
		if u > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%d into %s field: %w", u, fd.Type, ErrValueType)
		}
		i = int64(u)
	default:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= float64(math.MaxInt64) {
			return reflect.Value{}, fmt.Errorf("%v into %s field: %w", f, fd.Type, ErrValueType)
		}
		i = int64(f)
	}

	if out.OverflowInt(i) {
		return reflect.Value{}, fmt.Errorf("%d into %s field: %w", i, fd.Type, ErrValueType)
	}

	out.SetInt(i)
	return out, nil
}

func floatValue(fd schema.FieldDescriptor, f float64) (reflect.Value, error) {
	out := reflect.New(fd.Type).Elem()

	if out.OverflowFloat(f) {
		return reflect.Value{}, fmt.Errorf("%v into %s field: %w", f, fd.Type, ErrValueType)
	}

	out.SetFloat(f)
	return out, nil
}

func floatOf(rv reflect.Value) float64 {
	switch {
	case isSignedKind(rv.Kind()):
		return float64(rv.Int())
	case isUnsignedKind(rv.Kind()):
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func isNumericKind(k reflect.Kind) bool {
	return isSignedKind(k) || isUnsignedKind(k) ||
		k == reflect.Float32 || k == reflect.Float64
}

func isSignedKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
}

func isUnsignedKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
}
