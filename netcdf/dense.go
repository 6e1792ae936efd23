package netcdf

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// ReadDense materializes the variable's full array as a dense row-major
// grid, for callers that do want everything in memory. Record variables are
// read one record chunk at a time via the record stride; non-record
// variables in a single contiguous read. Packing attributes are applied as
// in Read2D.
func (v *Variable) ReadDense() (*sparse.DenseArray, error) {
	if v.file.closed {
		return nil, ErrClosed
	}
	width, err := nctype.Width(v.v.Type)
	if err != nil {
		return nil, err
	}
	scale, offset := v.packing()

	shape := v.Shape()
	arr := sparse.ZerosDense(shape...)

	decodeInto := func(dst []float64, raw []byte) error {
		for i := range dst {
			val, err := nctype.DecodeFloat64(v.v.Type, raw[i*width:(i+1)*width])
			if err != nil {
				return err
			}
			dst[i] = val*scale + offset
		}
		return nil
	}

	if !v.placement.Record {
		raw, err := v.file.reader.At(v.placement.Begin).ReadBytes(len(arr.Elements) * width)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		if err := decodeInto(arr.Elements, raw); err != nil {
			return nil, err
		}
		return arr, nil
	}

	perRecord := 1
	for _, n := range shape[1:] {
		perRecord *= n
	}
	for rec := 0; rec < shape[0]; rec++ {
		pos := v.placement.Begin + int64(rec)*v.file.layout.Stride
		raw, err := v.file.reader.At(pos).ReadBytes(perRecord * width)
		if err != nil {
			return nil, fmt.Errorf("variable %q record %d: %w", v.Name(), rec, err)
		}
		if err := decodeInto(arr.Elements[rec*perRecord:(rec+1)*perRecord], raw); err != nil {
			return nil, err
		}
	}
	return arr, nil
}
