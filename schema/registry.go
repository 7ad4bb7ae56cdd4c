package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNotStruct          = errors.New("model prototype must be a struct or pointer to struct")
	ErrDuplicateModel     = errors.New("model name is already registered")
	ErrDuplicateAttribute = errors.New("attribute is declared twice on the same model")
	ErrFieldUnbound       = errors.New("declared attribute has no matching struct field")
	ErrFieldType          = errors.New("struct field type does not match the declared wire type")
	ErrUnknownModel       = errors.New("nested model name is not registered")
	ErrMetadataCycle      = errors.New("model declarations form a reference cycle")
)

// Registry holds the bound schemas of all registered model types.
// Register every model at process start, call Validate once, then treat
// the registry as read-only.
type Registry struct {
	byName map[string]*Schema
	byType map[reflect.Type]*Schema
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Schema),
		byType: make(map[reflect.Type]*Schema),
	}
}

// Register binds decl to the struct type of prototype and records the
// resulting schema under decl.Name. Every declared attribute must
// resolve to an exported field of the prototype; the field's Go type
// must fit the declared wire type.
func (r *Registry) Register(decl ModelDecl, prototype any) (*Schema, error) {
	if _, exists := r.byName[decl.Name]; exists {
		return nil, fmt.Errorf("%q: %w", decl.Name, ErrDuplicateModel)
	}

	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%q: %w", decl.Name, ErrNotStruct)
	}

	sch := &Schema{
		Name:        decl.Name,
		Type:        t,
		Fields:      make([]FieldDescriptor, 0, len(decl.Fields)),
		Overrides:   decl.Overrides,
		byAttribute: make(map[string]int, len(decl.Fields)),
		flipped:     decl.Overrides.Flip(),
	}

	for _, fdecl := range decl.Fields {
		fd, err := bindField(decl.Name, fdecl, t)
		if err != nil {
			return nil, err
		}

		if _, exists := sch.byAttribute[fd.Attribute]; exists {
			return nil, fmt.Errorf("%s.%s: %w", decl.Name, fd.Attribute, ErrDuplicateAttribute)
		}

		sch.byAttribute[fd.Attribute] = len(sch.Fields)
		sch.Fields = append(sch.Fields, fd)
	}

	r.byName[decl.Name] = sch
	r.byType[t] = sch

	return sch, nil
}

// MustRegister is Register for static declarations; it panics on error.
func (r *Registry) MustRegister(decl ModelDecl, prototype any) *Schema {
	sch, err := r.Register(decl, prototype)
	if err != nil {
		panic(err)
	}

	return sch
}

// Lookup returns the schema registered under the given model name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	sch, ok := r.byName[name]
	return sch, ok
}

// LookupType returns the schema bound to the given struct type.
func (r *Registry) LookupType(t reflect.Type) (*Schema, bool) {
	sch, ok := r.byType[t]
	return sch, ok
}

// Validate resolves all nested model references and rejects reference
// cycles. Call it after the last Register and before the first decode.
func (r *Registry) Validate() error {
	edges := make(map[string][]string, len(r.byName))

	for name, sch := range r.byName {
		for _, fd := range sch.Fields {
			if fd.Kind != KindModel {
				continue
			}

			if _, ok := r.byName[fd.Model]; !ok {
				return fmt.Errorf("%s.%s references %q: %w", name, fd.Attribute, fd.Model, ErrUnknownModel)
			}

			edges[name] = append(edges[name], fd.Model)
		}
	}

	if cycle := findCycle(edges); cycle != nil {
		return fmt.Errorf("%s: %w", strings.Join(cycle, " -> "), ErrMetadataCycle)
	}

	return nil
}

func bindField(model string, fdecl FieldDecl, t reflect.Type) (FieldDescriptor, error) {
	fd := FieldDescriptor{
		Attribute: fdecl.Attribute,
		Kind:      ParseKind(fdecl.Type),
		Sequence:  fdecl.Sequence,
	}
	if fd.Kind == KindModel {
		fd.Model = fdecl.Type
	}

	sf, ok := fieldFor(t, fdecl.Attribute)
	if !ok {
		return FieldDescriptor{}, fmt.Errorf("%s.%s: %w", model, fdecl.Attribute, ErrFieldUnbound)
	}

	fd.Index = sf.Index[0]
	fd.Type = sf.Type

	if err := checkFieldType(fd, sf.Type); err != nil {
		return FieldDescriptor{}, fmt.Errorf("%s.%s declared %q but struct field is %s: %w",
			model, fdecl.Attribute, fdecl.Type, sf.Type, err)
	}

	return fd, nil
}

// fieldFor matches an attribute name to an exported struct field,
// ignoring case: attribute "ipAddress" binds to field "IPAddress".
func fieldFor(t reflect.Type, attribute string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			// Unexported, skip.
			continue
		}

		if strings.EqualFold(sf.Name, attribute) {
			return sf, true
		}
	}

	return reflect.StructField{}, false
}

func checkFieldType(fd FieldDescriptor, ft reflect.Type) error {
	if fd.Sequence && fd.Kind != KindModel {
		return fmt.Errorf("sequence cardinality requires a model type: %w", ErrFieldType)
	}

	switch fd.Kind {
	case KindString:
		if ft.Kind() != reflect.String {
			return ErrFieldType
		}
	case KindBool:
		if ft.Kind() != reflect.Bool {
			return ErrFieldType
		}
	case KindInt:
		if !isIntegerKind(ft.Kind()) {
			return ErrFieldType
		}
	case KindFloat:
		if ft.Kind() != reflect.Float32 && ft.Kind() != reflect.Float64 {
			return ErrFieldType
		}
	case KindRaw:
		if ft.Kind() != reflect.Interface || ft.NumMethod() != 0 {
			return ErrFieldType
		}
	case KindModel:
		if fd.Sequence {
			if ft.Kind() != reflect.Slice {
				return ErrFieldType
			}
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			return ErrFieldType
		}
	}

	return nil
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	default:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
}
