package netcdf

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Test fixtures are synthetic classic files assembled in memory. The builder
// lays the data section out the way the reference library does: non-record
// variables contiguous in declaration order, then the record section with
// every record variable's chunk interleaved per record.

const streaming = 0xFFFFFFFF

type tAttr struct {
	name string
	typ  Type
	text string    // used for Char
	vals []float64 // used for everything else
}

type tDim struct {
	name   string
	length int // 0 = unlimited
}

type tVar struct {
	name string
	dims []int
	typ  Type
	atts []tAttr
	// data holds the full logical array, row-major, records included.
	data []float64
}

type tFile struct {
	version Version
	numRecs uint32 // raw header field, may be the streaming sentinel
	records int    // records actually written to the data section
	dims    []tDim
	gatts   []tAttr
	vars    []tVar
	// trailing bytes appended after the data section
	slack int
}

func pad4(n int64) int64 {
	if r := n % 4; r != 0 {
		return n + 4 - r
	}
	return n
}

func typeWidth(t Type) int {
	switch t {
	case Byte, Char:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Double:
		return 8
	}
	panic("bad type")
}

func putValue(buf *bytes.Buffer, t Type, v float64) {
	switch t {
	case Byte, Char:
		buf.WriteByte(byte(int8(v)))
	case Short:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(int16(v)))
		buf.Write(b[:])
	case Int:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(v)))
		buf.Write(b[:])
	case Float:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(float32(v)))
		buf.Write(b[:])
	case Double:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		buf.Write(b[:])
	}
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putName(buf *bytes.Buffer, name string) {
	putU32(buf, uint32(len(name)))
	buf.WriteString(name)
	for i := int64(len(name)); i < pad4(int64(len(name))); i++ {
		buf.WriteByte(0)
	}
}

func putAttList(buf *bytes.Buffer, atts []tAttr) {
	if len(atts) == 0 {
		putU32(buf, 0)
		putU32(buf, 0)
		return
	}
	putU32(buf, 0x0C)
	putU32(buf, uint32(len(atts)))
	for _, a := range atts {
		putName(buf, a.name)
		putU32(buf, uint32(a.typ))
		w := typeWidth(a.typ)
		if a.typ == Char {
			putU32(buf, uint32(len(a.text)))
			buf.WriteString(a.text)
			for i := int64(len(a.text)); i < pad4(int64(len(a.text))); i++ {
				buf.WriteByte(0)
			}
		} else {
			putU32(buf, uint32(len(a.vals)))
			n := int64(0)
			for _, v := range a.vals {
				putValue(buf, a.typ, v)
				n += int64(w)
			}
			for ; n < pad4(n); n++ {
				buf.WriteByte(0)
			}
		}
	}
}

// vsize returns the padded per-record byte size of v, and the element count
// of one record chunk.
func (f tFile) vsize(v tVar) (int64, int) {
	n := 1
	for i, di := range v.dims {
		if i == 0 && f.isRecordVar(v) {
			continue
		}
		n *= f.dims[di].length
	}
	return pad4(int64(n * typeWidth(v.typ))), n
}

func (f tFile) isRecordVar(v tVar) bool {
	return len(v.dims) > 0 && f.dims[v.dims[0]].length == 0
}

func (f tFile) headerBytes(begins []int64) []byte {
	var buf bytes.Buffer
	buf.WriteString("CDF")
	buf.WriteByte(byte(f.version))
	putU32(&buf, f.numRecs)

	if len(f.dims) == 0 {
		putU32(&buf, 0)
		putU32(&buf, 0)
	} else {
		putU32(&buf, 0x0A)
		putU32(&buf, uint32(len(f.dims)))
		for _, d := range f.dims {
			putName(&buf, d.name)
			putU32(&buf, uint32(d.length))
		}
	}

	putAttList(&buf, f.gatts)

	if len(f.vars) == 0 {
		putU32(&buf, 0)
		putU32(&buf, 0)
	} else {
		putU32(&buf, 0x0B)
		putU32(&buf, uint32(len(f.vars)))
		for i, v := range f.vars {
			putName(&buf, v.name)
			putU32(&buf, uint32(len(v.dims)))
			for _, di := range v.dims {
				putU32(&buf, uint32(di))
			}
			putAttList(&buf, v.atts)
			putU32(&buf, uint32(v.typ))
			vs, _ := f.vsize(v)
			putU32(&buf, uint32(vs))
			if f.version == Version64BitOffset {
				var b [8]byte
				binary.BigEndian.PutUint64(b[:], uint64(begins[i]))
				buf.Write(b[:])
			} else {
				putU32(&buf, uint32(begins[i]))
			}
		}
	}
	return buf.Bytes()
}

func (f tFile) build() []byte {
	// The header's size does not depend on the begin values, so lay it out
	// once with placeholders to learn where the data section starts.
	begins := make([]int64, len(f.vars))
	cur := int64(len(f.headerBytes(begins)))

	for i, v := range f.vars {
		if f.isRecordVar(v) {
			continue
		}
		begins[i] = cur
		vs, _ := f.vsize(v)
		cur += vs
	}
	for i, v := range f.vars {
		if !f.isRecordVar(v) {
			continue
		}
		begins[i] = cur
		vs, _ := f.vsize(v)
		cur += vs
	}

	var out bytes.Buffer
	out.Write(f.headerBytes(begins))

	for _, v := range f.vars {
		if f.isRecordVar(v) {
			continue
		}
		vs, n := f.vsize(v)
		var chunk bytes.Buffer
		for i := 0; i < n; i++ {
			putValue(&chunk, v.typ, v.data[i])
		}
		for int64(chunk.Len()) < vs {
			chunk.WriteByte(0)
		}
		out.Write(chunk.Bytes())
	}
	for rec := 0; rec < f.records; rec++ {
		for _, v := range f.vars {
			if !f.isRecordVar(v) {
				continue
			}
			vs, n := f.vsize(v)
			var chunk bytes.Buffer
			for i := 0; i < n; i++ {
				putValue(&chunk, v.typ, v.data[rec*n+i])
			}
			for int64(chunk.Len()) < vs {
				chunk.WriteByte(0)
			}
			out.Write(chunk.Bytes())
		}
	}
	for i := 0; i < f.slack; i++ {
		out.WriteByte(0)
	}
	return out.Bytes()
}

func openT(data []byte, opts ...FileOption) (*File, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
}
