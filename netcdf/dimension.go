package netcdf

import "github.com/robert-malhotra/go-netcdf/internal/header"

// Dimension is a named axis declared in the file header.
type Dimension struct {
	file *File
	dim  *header.Dimension
}

// Name returns the dimension name.
func (d *Dimension) Name() string {
	return d.dim.Name
}

// Len returns the usable length of the dimension. For the unlimited
// dimension this is the file's readable record count, not the declared zero.
func (d *Dimension) Len() int {
	if d.dim.IsUnlimited() {
		return d.file.NumRecords()
	}
	return d.dim.Length
}

// DeclaredLen returns the length as stored in the header, zero for the
// unlimited dimension.
func (d *Dimension) DeclaredLen() int {
	return d.dim.Length
}

// IsUnlimited reports whether this is the record dimension.
func (d *Dimension) IsUnlimited() bool {
	return d.dim.IsUnlimited()
}
