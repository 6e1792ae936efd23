// Package header parses the self-describing header of NetCDF classic and
// 64-bit offset files into explicit entity types.
package header

import (
	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// Version is the format variant selected by the byte following the magic.
type Version uint8

const (
	// VersionClassic is the original format with 32-bit begin offsets.
	VersionClassic Version = 1
	// Version64BitOffset uses 64-bit begin offsets to exceed the 2 GiB limit.
	Version64BitOffset Version = 2
)

func (v Version) String() string {
	switch v {
	case VersionClassic:
		return "classic"
	case Version64BitOffset:
		return "64-bit offset"
	default:
		return "unknown"
	}
}

// StreamingRecords is the value of Header.NumRecs when the file was written
// in streaming mode and the record count must be derived from the file length.
const StreamingRecords = -1

// Dimension is a named axis with a declared length. A length of zero marks
// the single unlimited (record) dimension.
type Dimension struct {
	Name   string
	Length int
}

// IsUnlimited reports whether this is the record dimension.
func (d *Dimension) IsUnlimited() bool {
	return d.Length == 0
}

// Attribute is a named, typed sequence of scalar values attached to the file
// or to a variable. Character attributes hold a single string value.
type Attribute struct {
	Name   string
	Type   nctype.Type
	Values []interface{}
}

// Len returns the number of stored elements: characters for NC_CHAR,
// scalars otherwise.
func (a *Attribute) Len() int {
	if a.Type == nctype.Char {
		if s, ok := a.Text(); ok {
			return len(s)
		}
		return 0
	}
	return len(a.Values)
}

// Text returns the attribute value as a string for NC_CHAR attributes.
func (a *Attribute) Text() (string, bool) {
	if a.Type != nctype.Char || len(a.Values) != 1 {
		return "", false
	}
	s, ok := a.Values[0].(string)
	return s, ok
}

// Variable describes one array in the file: its axes (by dimension id, index
// 0 outermost), external type, attributes, and the location of its data.
type Variable struct {
	Name       string
	DimIDs     []int
	Type       nctype.Type
	Attributes []*Attribute
	VSize      int64 // padded byte size of one record's worth of data
	Begin      int64 // absolute offset of the first record
}

// Attribute returns the variable attribute with the given name, or nil.
func (v *Variable) Attribute(name string) *Attribute {
	for _, a := range v.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Header is the parsed file header. All fields are read-only once Parse
// returns.
type Header struct {
	Version    Version
	NumRecs    int64 // declared record count, StreamingRecords if unset
	Dimensions []*Dimension
	Attributes []*Attribute
	Variables  []*Variable
}

// Dimension returns the dimension with the given name, or nil.
func (h *Header) Dimension(name string) *Dimension {
	for _, d := range h.Dimensions {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Attribute returns the global attribute with the given name, or nil.
func (h *Header) Attribute(name string) *Attribute {
	for _, a := range h.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Variable returns the variable with the given name, or nil.
func (h *Header) Variable(name string) *Variable {
	for _, v := range h.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// UnlimitedDimension returns the id of the record dimension, or -1 if the
// file has none.
func (h *Header) UnlimitedDimension() int {
	for i, d := range h.Dimensions {
		if d.IsUnlimited() {
			return i
		}
	}
	return -1
}
