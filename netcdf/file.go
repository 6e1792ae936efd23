// Package netcdf provides a pure Go reader for NetCDF classic and 64-bit
// offset files: header parsing plus random-access reads of array data
// directly from file offsets, without loading whole variables into memory.
//
// A File and its byte source are owned by one caller; the parsed header is
// immutable and reads are stateless seeks, so concurrent use requires either
// external serialization or independently opened handles.
package netcdf

import (
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
	"github.com/robert-malhotra/go-netcdf/internal/header"
	"github.com/robert-malhotra/go-netcdf/internal/layout"
	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// Version is the format variant of an open file.
type Version = header.Version

// Format versions.
const (
	VersionClassic     = header.VersionClassic
	Version64BitOffset = header.Version64BitOffset
)

// Type is a NetCDF external type tag.
type Type = nctype.Type

// External types of the classic format.
const (
	Byte   = nctype.Byte
	Char   = nctype.Char
	Short  = nctype.Short
	Int    = nctype.Int
	Float  = nctype.Float
	Double = nctype.Double
)

// File represents an open NetCDF classic file.
type File struct {
	path   string
	file   *os.File
	reader *binary.Reader
	header *header.Header
	layout *layout.Layout
	opts   fileOptions
	closed bool
}

// Open opens a NetCDF file for reading.
func Open(path string, opts ...FileOption) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	nc, err := OpenReader(f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	nc.path = path
	nc.file = f
	return nc, nil
}

// OpenReader opens a NetCDF file from a random-access byte source holding
// size readable bytes. The caller retains ownership of r; Close on the
// returned File does not close it.
func OpenReader(r io.ReaderAt, size int64, opts ...FileOption) (*File, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reader := binary.NewReader(r, size)
	h, err := header.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	l := layout.Resolve(h, size)
	if warn, ok := l.Warning.(*layout.RecordLayoutError); ok {
		o.log.Warn().
			Int64("declared", warn.Declared).
			Int64("derived", warn.Derived).
			Msg("inconsistent record layout")
	}

	return &File{
		reader: reader,
		header: h,
		layout: l,
		opts:   o,
	}, nil
}

// Close closes the file. Files opened with OpenReader only mark themselves
// closed; the underlying byte source stays open.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Path returns the file path, or "" for files opened from a reader.
func (f *File) Path() string {
	return f.path
}

// Version returns the format version.
func (f *File) Version() Version {
	return f.header.Version
}

// NumRecords returns the readable record count along the unlimited dimension.
// The header's declared count is advisory; when it disagrees with what the
// file length supports, the smaller bound wins (see LayoutWarning).
func (f *File) NumRecords() int {
	return int(f.layout.NumRecords)
}

// RecordStride returns the byte distance between successive records, the sum
// of the record variables' vsize in declaration order. Zero when the file has
// no record variables.
func (f *File) RecordStride() int64 {
	return f.layout.Stride
}

// LayoutWarning returns the soft record-layout inconsistency detected at open
// time, or nil. A non-nil warning does not invalidate reads within the
// resolved bounds.
func (f *File) LayoutWarning() error {
	return f.layout.Warning
}

// Dimensions returns all dimensions in declaration order.
func (f *File) Dimensions() []*Dimension {
	dims := make([]*Dimension, len(f.header.Dimensions))
	for i, d := range f.header.Dimensions {
		dims[i] = &Dimension{file: f, dim: d}
	}
	return dims
}

// Dimension returns the dimension with the given name, or nil.
func (f *File) Dimension(name string) *Dimension {
	d := f.header.Dimension(name)
	if d == nil {
		return nil
	}
	return &Dimension{file: f, dim: d}
}

// Variables returns all variables in declaration order.
func (f *File) Variables() []*Variable {
	vars := make([]*Variable, len(f.header.Variables))
	for i, v := range f.header.Variables {
		vars[i] = f.wrapVariable(v)
	}
	return vars
}

// Variable returns the variable with the given name, or nil.
func (f *File) Variable(name string) *Variable {
	v := f.header.Variable(name)
	if v == nil {
		return nil
	}
	return f.wrapVariable(v)
}

// Attributes returns all global attributes in declaration order.
func (f *File) Attributes() []*Attribute {
	atts := make([]*Attribute, len(f.header.Attributes))
	for i, a := range f.header.Attributes {
		atts[i] = &Attribute{att: a}
	}
	return atts
}

// Attribute returns the global attribute with the given name, or nil.
func (f *File) Attribute(name string) *Attribute {
	a := f.header.Attribute(name)
	if a == nil {
		return nil
	}
	return &Attribute{att: a}
}

func (f *File) wrapVariable(v *header.Variable) *Variable {
	lv, _ := f.layout.Var(v.Name)
	return &Variable{file: f, v: v, placement: lv}
}
