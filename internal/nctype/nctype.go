// Package nctype defines the closed set of NetCDF classic external types and
// the decoding of their big-endian byte representations into Go values.
package nctype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnsupported is returned for any type tag outside the classic set. Tags
// beyond NC_DOUBLE belong to the NetCDF-4/HDF5 family, which this library
// deliberately does not handle.
var ErrUnsupported = errors.New("unsupported external type")

// Type is a NetCDF external type tag as stored in the file header.
type Type uint32

// External types of the classic format.
const (
	Byte   Type = 1 // NC_BYTE: 8-bit signed integer
	Char   Type = 2 // NC_CHAR: 8-bit character
	Short  Type = 3 // NC_SHORT: 16-bit signed integer
	Int    Type = 4 // NC_INT: 32-bit signed integer
	Float  Type = 5 // NC_FLOAT: 32-bit IEEE float
	Double Type = 6 // NC_DOUBLE: 64-bit IEEE float
)

var names = map[Type]string{
	Byte:   "NC_BYTE",
	Char:   "NC_CHAR",
	Short:  "NC_SHORT",
	Int:    "NC_INT",
	Float:  "NC_FLOAT",
	Double: "NC_DOUBLE",
}

var widths = map[Type]int{
	Byte:   1,
	Char:   1,
	Short:  2,
	Int:    4,
	Float:  4,
	Double: 8,
}

func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

// Valid reports whether t is one of the classic external types.
func (t Type) Valid() bool {
	_, ok := widths[t]
	return ok
}

// Width returns the external size in bytes of one value of type t.
func Width(t Type) (int, error) {
	w, ok := widths[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
	return w, nil
}

// PaddedSize returns the byte size of n values of type t, rounded up to the
// next 4-byte boundary as required for header values and record blocks.
func PaddedSize(t Type, n int) (int64, error) {
	w, err := Width(t)
	if err != nil {
		return 0, err
	}
	return Pad4(int64(n) * int64(w)), nil
}

// Pad4 rounds n up to the next multiple of 4.
func Pad4(n int64) int64 {
	if r := n % 4; r != 0 {
		return n + 4 - r
	}
	return n
}

// Decode converts one raw big-endian value of type t to its native Go
// representation: int8, string, int16, int32, float32 or float64. For Char,
// raw may hold more than one byte and decodes to the whole string.
func Decode(t Type, raw []byte) (interface{}, error) {
	switch t {
	case Byte:
		return int8(raw[0]), nil
	case Char:
		return string(raw), nil
	case Short:
		return int16(binary.BigEndian.Uint16(raw)), nil
	case Int:
		return int32(binary.BigEndian.Uint32(raw)), nil
	case Float:
		return math.Float32frombits(binary.BigEndian.Uint32(raw)), nil
	case Double:
		return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
}

// DecodeFloat64 converts one raw big-endian value of type t to float64, the
// uniform representation used for array reads. Char decodes to the numeric
// value of the byte.
func DecodeFloat64(t Type, raw []byte) (float64, error) {
	switch t {
	case Byte:
		return float64(int8(raw[0])), nil
	case Char:
		return float64(raw[0]), nil
	case Short:
		return float64(int16(binary.BigEndian.Uint16(raw))), nil
	case Int:
		return float64(int32(binary.BigEndian.Uint32(raw))), nil
	case Float:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(raw))), nil
	case Double:
		return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
}
