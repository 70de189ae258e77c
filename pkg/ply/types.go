package ply

import "fmt"

// Format identifies the data encoding declared in a PLY header.
type Format int

const (
	FormatASCII              Format = 0 // whitespace-separated text tokens
	FormatBinaryLittleEndian Format = 1 // packed little-endian records
	FormatBinaryBigEndian    Format = 2 // packed big-endian records
)

// String returns the format name as it appears in a PLY header.
func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ScalarType identifies one of the eight PLY scalar types.
type ScalarType int

const (
	Int8 ScalarType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// Size returns the encoded width of the type in bytes (binary formats).
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat returns true for the floating-point types.
func (t ScalarType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// String returns a canonical PLY type name.
func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// parseScalarType resolves a header type word. Both the original names
// (char, uchar, short, ...) and the sized names (int8, uint8, ...) occur
// in files written by common tools.
func parseScalarType(word string) (ScalarType, bool) {
	switch word {
	case "char", "int8":
		return Int8, true
	case "uchar", "uint8":
		return Uint8, true
	case "short", "int16":
		return Int16, true
	case "ushort", "uint16":
		return Uint16, true
	case "int", "int32":
		return Int32, true
	case "uint", "uint32":
		return Uint32, true
	case "float", "float32":
		return Float32, true
	case "double", "float64":
		return Float64, true
	default:
		return 0, false
	}
}

// Property describes one field of an element. Scalar properties use Type
// alone; list properties prefix each row with a CountType-encoded length
// followed by that many Type items.
type Property struct {
	Name      string
	Type      ScalarType // scalar type, or item type for lists
	IsList    bool
	CountType ScalarType // list length type, valid only when IsList
}

// String returns the property as declared in a header.
func (p Property) String() string {
	if p.IsList {
		return fmt.Sprintf("list %s %s %s", p.CountType, p.Type, p.Name)
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

// Element describes one named, counted group of data rows.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Property returns the named property, or nil if the element has none.
func (e *Element) Property(name string) *Property {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i]
		}
	}
	return nil
}

// Header is a parsed PLY header: the data encoding plus the declared
// element/property schema, fixed for the duration of the file.
type Header struct {
	Format     Format
	Version    string    // format version string, normally "1.0"
	Comments   []string  // comment lines in declaration order
	Elements   []Element // elements in declaration order
	DataOffset int64     // bytes from stream start to the first data byte
}

// Element returns the named element, or nil if not declared.
func (h *Header) Element(name string) *Element {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}
