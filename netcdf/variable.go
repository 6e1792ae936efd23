package netcdf

import (
	"github.com/robert-malhotra/go-netcdf/internal/header"
	"github.com/robert-malhotra/go-netcdf/internal/layout"
)

// Variable is one array in the file, with its axes, type, attributes and the
// resolved placement of its data.
type Variable struct {
	file      *File
	v         *header.Variable
	placement layout.Var
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.v.Name
}

// Type returns the external type of the variable's elements.
func (v *Variable) Type() Type {
	return v.v.Type
}

// Dimensions returns the variable's axes in declaration order, index 0
// outermost.
func (v *Variable) Dimensions() []*Dimension {
	dims := make([]*Dimension, len(v.v.DimIDs))
	for i, id := range v.v.DimIDs {
		dims[i] = &Dimension{file: v.file, dim: v.file.header.Dimensions[id]}
	}
	return dims
}

// DimensionNames returns the names of the variable's axes in order.
func (v *Variable) DimensionNames() []string {
	names := make([]string, len(v.v.DimIDs))
	for i, id := range v.v.DimIDs {
		names[i] = v.file.header.Dimensions[id].Name
	}
	return names
}

// Rank returns the number of axes.
func (v *Variable) Rank() int {
	return len(v.v.DimIDs)
}

// Shape returns the usable length of each axis. The unlimited dimension
// reports the file's readable record count.
func (v *Variable) Shape() []int {
	shape := make([]int, len(v.v.DimIDs))
	for i, id := range v.v.DimIDs {
		d := v.file.header.Dimensions[id]
		if d.IsUnlimited() {
			shape[i] = v.file.NumRecords()
		} else {
			shape[i] = d.Length
		}
	}
	return shape
}

// Attributes returns the variable's attributes in declaration order.
func (v *Variable) Attributes() []*Attribute {
	atts := make([]*Attribute, len(v.v.Attributes))
	for i, a := range v.v.Attributes {
		atts[i] = &Attribute{att: a}
	}
	return atts
}

// Attribute returns the variable attribute with the given name, or nil.
func (v *Variable) Attribute(name string) *Attribute {
	a := v.v.Attribute(name)
	if a == nil {
		return nil
	}
	return &Attribute{att: a}
}

// IsRecord reports whether the variable's first dimension is the unlimited
// one, making its data striped across records at the file's record stride.
func (v *Variable) IsRecord() bool {
	return v.placement.Record
}

// IsCoordinate reports whether this is a coordinate variable: a
// one-dimensional variable named after its own dimension.
func (v *Variable) IsCoordinate() bool {
	return len(v.v.DimIDs) == 1 &&
		v.file.header.Dimensions[v.v.DimIDs[0]].Name == v.v.Name
}

// VSize returns the padded byte size of one record's worth of data.
func (v *Variable) VSize() int64 {
	return v.v.VSize
}

// Begin returns the absolute byte offset of the variable's first record.
func (v *Variable) Begin() int64 {
	return v.v.Begin
}

// packing returns the scale_factor and add_offset transformation declared by
// the variable's attributes, defaulting to the identity.
func (v *Variable) packing() (scale, offset float64) {
	scale, offset = 1, 0
	if a := v.Attribute("scale_factor"); a != nil {
		if s, ok := a.Float64(); ok {
			scale = s
		}
	}
	if a := v.Attribute("add_offset"); a != nil {
		if o, ok := a.Float64(); ok {
			offset = o
		}
	}
	return scale, offset
}
