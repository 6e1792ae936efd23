package netcdf

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
	"github.com/robert-malhotra/go-netcdf/internal/header"
	"github.com/robert-malhotra/go-netcdf/internal/layout"
	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// Common errors
var (
	ErrNotNetCDF            = header.ErrNotNetCDF
	ErrUnsupportedVersion   = header.ErrUnsupportedVersion
	ErrMalformedHeader      = header.ErrMalformed
	ErrUnsupportedType      = nctype.ErrUnsupported
	ErrTruncated            = binary.ErrTruncated
	ErrNoSuchVariable       = errors.New("no such variable")
	ErrNoCoordinateVariable = errors.New("no coordinate variable for dimension")
	ErrClosed               = errors.New("file is closed")
)

// RecordLayoutError is the advisory warning produced when the header's
// declared record count disagrees with the file's trailing length. It is
// available via File.LayoutWarning and never fails an Open.
type RecordLayoutError = layout.RecordLayoutError

// AxisSelectionError reports an invalid axis selection passed to Read2D:
// a free axis that is not a dimension of the variable, a fixed index for a
// dimension the variable does not have (or a missing one), or an index out
// of range.
type AxisSelectionError struct {
	Variable string
	Axis     string
	Reason   string
}

func (e *AxisSelectionError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("variable %q: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("variable %q, axis %q: %s", e.Variable, e.Axis, e.Reason)
}
