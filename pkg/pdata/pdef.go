// Package pdata implements the binary codec for Titanfall 2 persistent player
// data.
package pdata

// Schema describes the layout of a persistent player data blob. Structures
// must not be recursive.
type Schema struct {
	Root   []Field
	Enum   map[string][]string
	Struct map[string][]Field
}

// Field is a named entry in the root or in a struct.
type Field struct {
	Name string
	Type TypeInfo
}

// TypeInfo describes a type. Exactly one of these struct fields will be set.
type TypeInfo struct {
	Int    *TypeInfoPrimitive
	Bool   *TypeInfoPrimitive
	Float  *TypeInfoPrimitive
	String *TypeInfoString
	Array  *TypeInfoArray
	Enum   *TypeInfoEnum
	Struct *TypeInfoStruct
}

// TypeInfoPrimitive is used for an unconfigurable type.
type TypeInfoPrimitive struct {
}

// TypeInfoString is used for fixed-length strings. The stored value is the
// UTF-8 text up to the first NUL.
type TypeInfoString struct {
	Length int
}

// TypeInfoArray is used for a fixed-length array.
type TypeInfoArray struct {
	Type   TypeInfo
	Length int
}

// TypeInfoEnum refers to a defined enum.
type TypeInfoEnum struct {
	Name string
}

// TypeInfoStruct refers to a defined struct.
type TypeInfoStruct struct {
	Name string
}

// TypeSize returns the encoded size of t in bytes.
func (s Schema) TypeSize(t TypeInfo) int {
	switch {
	case t.Int != nil:
		return 4 // int32le
	case t.Bool != nil:
		return 1 // byte
	case t.Float != nil:
		return 4 // float32le
	case t.String != nil:
		return t.String.Length // char[]
	case t.Array != nil:
		return t.Array.Length * s.TypeSize(t.Array.Type)
	case t.Enum != nil:
		return 1 // uint8 variant index
	case t.Struct != nil:
		fs, ok := s.Struct[t.Struct.Name]
		if !ok {
			panic("undefined struct in schema")
		}
		var n int
		for _, f := range fs {
			n += s.TypeSize(f.Type)
		}
		return n
	default:
		panic("internal unimplemented schema type")
	}
}

// Size returns the total encoded size of the root in bytes.
func (s Schema) Size() int {
	var n int
	for _, f := range s.Root {
		n += s.TypeSize(f.Type)
	}
	return n
}
