package netcdf

import (
	"fmt"

	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// ReadDimensionValues reads the values of a dimension's coordinate variable:
// the variable with the same name as the dimension and that dimension as its
// only axis. Values are returned in dimension order; for the unlimited
// dimension one value is read per record via the record stride.
func (f *File) ReadDimensionValues(name string) ([]float64, error) {
	if f.closed {
		return nil, ErrClosed
	}
	d := f.header.Dimension(name)
	hv := f.header.Variable(name)
	if d == nil || hv == nil || len(hv.DimIDs) != 1 ||
		f.header.Dimensions[hv.DimIDs[0]].Name != name {
		return nil, fmt.Errorf("%w: %q", ErrNoCoordinateVariable, name)
	}
	v := f.wrapVariable(hv)

	width, err := nctype.Width(hv.Type)
	if err != nil {
		return nil, err
	}
	scale, offset := v.packing()

	n := d.Length
	if d.IsUnlimited() {
		n = f.NumRecords()
	}
	values := make([]float64, 0, n)

	if v.placement.Record {
		for rec := 0; rec < n; rec++ {
			raw, err := f.reader.At(v.placement.Begin + int64(rec)*f.layout.Stride).ReadBytes(width)
			if err != nil {
				return nil, fmt.Errorf("dimension %q record %d: %w", name, rec, err)
			}
			val, err := nctype.DecodeFloat64(hv.Type, raw)
			if err != nil {
				return nil, err
			}
			values = append(values, val*scale+offset)
		}
		return values, nil
	}

	raw, err := f.reader.At(v.placement.Begin).ReadBytes(n * width)
	if err != nil {
		return nil, fmt.Errorf("dimension %q: %w", name, err)
	}
	for i := 0; i < n; i++ {
		val, err := nctype.DecodeFloat64(hv.Type, raw[i*width:(i+1)*width])
		if err != nil {
			return nil, err
		}
		values = append(values, val*scale+offset)
	}
	return values, nil
}

// Read2D extracts a two-dimensional slice of the variable as rows (outer
// index yDim, inner index xDim). fixed must supply one index for every other
// axis of the variable. Elements are located by row-major offset arithmetic
// and read one at a time, so only the requested slice is ever materialized.
//
// When the variable declares scale_factor or add_offset attributes the
// transformation value*scale_factor+add_offset is applied, as coards-style
// packed files expect.
func (v *Variable) Read2D(yDim, xDim string, fixed map[string]int) ([][]float64, error) {
	if v.file.closed {
		return nil, ErrClosed
	}
	if yDim == xDim {
		return nil, &AxisSelectionError{Variable: v.Name(), Axis: xDim,
			Reason: "y and x axes must differ"}
	}

	names := v.DimensionNames()
	lengths := v.Shape()
	yPos, xPos := -1, -1
	for i, n := range names {
		switch n {
		case yDim:
			yPos = i
		case xDim:
			xPos = i
		}
	}
	if yPos < 0 {
		return nil, &AxisSelectionError{Variable: v.Name(), Axis: yDim,
			Reason: "not a dimension of the variable"}
	}
	if xPos < 0 {
		return nil, &AxisSelectionError{Variable: v.Name(), Axis: xDim,
			Reason: "not a dimension of the variable"}
	}

	// Every remaining axis must be pinned to a valid scalar index, and
	// nothing else may be.
	idx := make([]int, len(names))
	for i, n := range names {
		if i == yPos || i == xPos {
			continue
		}
		val, ok := fixed[n]
		if !ok {
			return nil, &AxisSelectionError{Variable: v.Name(), Axis: n,
				Reason: "missing fixed index"}
		}
		if val < 0 || val >= lengths[i] {
			return nil, &AxisSelectionError{Variable: v.Name(), Axis: n,
				Reason: fmt.Sprintf("index %d out of range [0,%d)", val, lengths[i])}
		}
		idx[i] = val
	}
	for n := range fixed {
		if n == yDim || n == xDim {
			return nil, &AxisSelectionError{Variable: v.Name(), Axis: n,
				Reason: "fixed index given for a free axis"}
		}
		found := false
		for _, dn := range names {
			if dn == n {
				found = true
				break
			}
		}
		if !found {
			return nil, &AxisSelectionError{Variable: v.Name(), Axis: n,
				Reason: "not a dimension of the variable"}
		}
	}

	width, err := nctype.Width(v.v.Type)
	if err != nil {
		return nil, err
	}
	scale, offset := v.packing()

	// Row-major element strides. For record variables the outermost axis is
	// addressed via the record stride instead, so it is excluded from the
	// linear offset.
	start := 0
	if v.placement.Record {
		start = 1
	}
	elemStride := make([]int64, len(names))
	acc := int64(1)
	for k := len(names) - 1; k >= start; k-- {
		elemStride[k] = acc
		acc *= int64(lengths[k])
	}

	rows := make([][]float64, lengths[yPos])
	for y := range rows {
		idx[yPos] = y
		row := make([]float64, lengths[xPos])
		for x := range row {
			idx[xPos] = x

			pos := v.placement.Begin
			if v.placement.Record {
				pos += int64(idx[0]) * v.file.layout.Stride
			}
			var linear int64
			for k := start; k < len(idx); k++ {
				linear += int64(idx[k]) * elemStride[k]
			}
			pos += linear * int64(width)

			raw, err := v.file.reader.At(pos).ReadBytes(width)
			if err != nil {
				return nil, fmt.Errorf("variable %q at %v: %w", v.Name(), idx, err)
			}
			val, err := nctype.DecodeFloat64(v.v.Type, raw)
			if err != nil {
				return nil, err
			}
			row[x] = val*scale + offset
		}
		rows[y] = row
	}
	return rows, nil
}
