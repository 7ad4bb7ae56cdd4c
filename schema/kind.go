package schema

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindString
	KindBool
	KindInt
	KindFloat
	KindRaw   // undeclared wire type, the value passes through verbatim
	KindModel // nested model, single or sequence per descriptor

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsScalar reports whether values of this kind are assigned as-is
// during decoding, without nested model recursion.
func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindString, KindBool, KindInt, KindFloat:
		return true
	}
}

// ParseKind maps a textual wire-type declaration to a kind. The empty
// string declares a pass-through field; any name that is not a scalar
// keyword is a nested model reference.
func ParseKind(s string) KindEnum {
	switch s {
	case "string":
		return KindString
	case "bool":
		return KindBool
	case "int":
		return KindInt
	case "float":
		return KindFloat
	case "", "raw":
		return KindRaw
	default:
		return KindModel
	}
}
