package mapper

import (
	"fmt"
	"reflect"

	"wiremap/schema"
)

// Serializer converts typed model values back into string-keyed maps
// ready for a generic JSON encoder.
type Serializer struct {
	reg *schema.Registry
}

func NewSerializer(reg *schema.Registry) *Serializer {
	return &Serializer{reg: reg}
}

// WireObject walks the declared fields of a registered model instance
// and emits them under their wire keys. Scalar and raw values are
// copied verbatim; nested model values and sequences are converted
// recursively. The instance itself is never mutated.
func (ser *Serializer) WireObject(instance any) (map[string]any, error) {
	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil model instance: %w", schema.ErrNotStruct)
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%T: %w", instance, schema.ErrNotStruct)
	}

	sch, ok := ser.reg.LookupType(rv.Type())
	if !ok {
		return nil, fmt.Errorf("type %s: %w", rv.Type(), schema.ErrUnknownModel)
	}

	out := make(map[string]any, len(sch.Fields))

	for _, fd := range sch.Fields {
		fv := rv.Field(fd.Index)
		key := sch.WireKey(fd.Attribute)

		switch {
		case fd.Kind == schema.KindModel && fd.Sequence:
			seq, err := ser.wireSequence(fv)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", sch.Name, fd.Attribute, err)
			}
			out[key] = seq

		case fd.Kind == schema.KindModel:
			nested, err := ser.wireNested(fv)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", sch.Name, fd.Attribute, err)
			}
			out[key] = nested

		default:
			out[key] = fv.Interface()
		}
	}

	return out, nil
}

func (ser *Serializer) wireSequence(fv reflect.Value) (any, error) {
	if fv.IsNil() {
		return nil, nil
	}

	seq := make([]any, 0, fv.Len())
	for i := 0; i < fv.Len(); i++ {
		nested, err := ser.wireNested(fv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		seq = append(seq, nested)
	}

	return seq, nil
}

func (ser *Serializer) wireNested(fv reflect.Value) (any, error) {
	if fv.Kind() == reflect.Pointer && fv.IsNil() {
		return nil, nil
	}

	return ser.WireObject(fv.Interface())
}
