// Package layout post-processes a parsed header into the information needed
// to locate variable data: each variable's classification as record or
// non-record, the shared record stride, and the readable record count.
package layout

import (
	"fmt"

	"github.com/robert-malhotra/go-netcdf/internal/header"
)

// RecordLayoutError reports a disagreement between the header's declared
// record count and the count supported by the file's trailing length. It is
// advisory: reads within the resolved bounds remain valid, so it is carried
// as a warning rather than failing the open.
type RecordLayoutError struct {
	Declared int64
	Derived  int64
}

func (e *RecordLayoutError) Error() string {
	return fmt.Sprintf("inconsistent record layout: header declares %d records, file length supports %d",
		e.Declared, e.Derived)
}

// Var is the per-variable placement lookup entry.
type Var struct {
	Record bool
	Begin  int64
	VSize  int64
}

// Layout is the resolved placement of all variable data.
type Layout struct {
	// Stride is the byte distance between successive records, the sum of the
	// record variables' vsize in declaration order.
	Stride int64
	// NumRecords is the readable record count after reconciling the header's
	// declared count with the file length.
	NumRecords int64
	// RecordStart is the begin offset of the first record variable, where the
	// record section of the file starts.
	RecordStart int64
	// Warning is non-nil when the declared and derived record counts
	// disagree.
	Warning error

	vars map[string]Var
}

// Var returns the placement entry for the named variable.
func (l *Layout) Var(name string) (Var, bool) {
	v, ok := l.vars[name]
	return v, ok
}

// Resolve classifies every variable and computes the record stride and the
// readable record count. fileSize is the total length of the byte source.
//
// The header's record count is treated as advisory: when it is the streaming
// sentinel, or when the file's trailing length cannot hold that many records,
// the count derived from the file length wins. A header that declares fewer
// records than the file could hold is honored as a bound, with a warning.
func Resolve(h *header.Header, fileSize int64) *Layout {
	unlimited := h.UnlimitedDimension()

	l := &Layout{vars: make(map[string]Var, len(h.Variables))}
	for _, v := range h.Variables {
		record := unlimited >= 0 && len(v.DimIDs) > 0 && v.DimIDs[0] == unlimited
		l.vars[v.Name] = Var{Record: record, Begin: v.Begin, VSize: v.VSize}
		if record {
			if l.Stride == 0 {
				l.RecordStart = v.Begin
			} else if v.Begin < l.RecordStart {
				l.RecordStart = v.Begin
			}
			l.Stride += v.VSize
		}
	}

	if l.Stride == 0 {
		if h.NumRecs > 0 {
			l.NumRecords = h.NumRecs
		}
		return l
	}

	derived := (fileSize - l.RecordStart) / l.Stride
	if derived < 0 {
		derived = 0
	}

	switch {
	case h.NumRecs == header.StreamingRecords:
		l.NumRecords = derived
	case h.NumRecs == derived:
		l.NumRecords = derived
	case h.NumRecs > derived:
		l.NumRecords = derived
		l.Warning = &RecordLayoutError{Declared: h.NumRecs, Derived: derived}
	default:
		l.NumRecords = h.NumRecs
		l.Warning = &RecordLayoutError{Declared: h.NumRecs, Derived: derived}
	}
	return l
}
