package header

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
	"github.com/robert-malhotra/go-netcdf/internal/nctype"
)

// Magic is the three-byte signature opening every classic file.
var Magic = []byte{'C', 'D', 'F'}

// hdf5Signature opens NetCDF-4 files, which are HDF5 containers underneath.
var hdf5Signature = []byte{0x89, 'H', 'D'}

// Errors
var (
	ErrNotNetCDF          = errors.New("not a NetCDF classic file: bad magic")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrMalformed          = errors.New("malformed header")
)

// List tags preceding each of the three header lists. An absent list is
// encoded as eight zero bytes (zero tag, zero count).
const (
	tagAbsent    uint32 = 0x00
	tagDimension uint32 = 0x0A
	tagVariable  uint32 = 0x0B
	tagAttribute uint32 = 0x0C
)

// streamingSentinel in the numrecs field means the writer did not know the
// final record count.
const streamingSentinel uint32 = 0xFFFFFFFF

// maxVarDims matches the NC_MAX_VAR_DIMS limit of the reference library.
const maxVarDims = 1024

// Parse reads the complete header from the start of r. It fails on the first
// structural violation; no partial header is ever returned, because offsets
// derived from a bad header would be meaningless.
func Parse(r *binary.Reader) (*Header, error) {
	magic, err := r.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic) {
		if bytes.Equal(magic, hdf5Signature) {
			return nil, fmt.Errorf("%w: NetCDF-4/HDF5 container", ErrUnsupportedVersion)
		}
		return nil, ErrNotNetCDF
	}

	verByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	version := Version(verByte)
	if version != VersionClassic && version != Version64BitOffset {
		return nil, fmt.Errorf("%w: version byte %d", ErrUnsupportedVersion, verByte)
	}

	numRecs, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	h := &Header{Version: version, NumRecs: int64(numRecs)}
	if numRecs == streamingSentinel {
		h.NumRecs = StreamingRecords
	}

	if h.Dimensions, err = parseDimList(r); err != nil {
		return nil, err
	}
	if h.Attributes, err = parseAttList(r); err != nil {
		return nil, err
	}
	if h.Variables, err = parseVarList(r, h); err != nil {
		return nil, err
	}

	return h, nil
}

// readListCount reads the tag and element count that open a header list.
// Returns a zero count for an absent list.
func readListCount(r *binary.Reader, wantTag uint32) (int, error) {
	tag, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if tag == tagAbsent {
		if count != 0 {
			return 0, fmt.Errorf("%w: absent list with count %d", ErrMalformed, count)
		}
		return 0, nil
	}
	if tag != wantTag {
		return 0, fmt.Errorf("%w: list tag 0x%02X, want 0x%02X", ErrMalformed, tag, wantTag)
	}
	// Every list entry occupies at least 8 bytes, so a count beyond that
	// bound cannot be satisfied by the remaining file.
	if int64(count) > (r.Size()-r.Pos())/8 {
		return 0, fmt.Errorf("%w: list count %d overflows file size", ErrMalformed, count)
	}
	return int(count), nil
}

func parseDimList(r *binary.Reader) ([]*Dimension, error) {
	count, err := readListCount(r, tagDimension)
	if err != nil {
		return nil, err
	}
	dims := make([]*Dimension, 0, count)
	unlimited := 0
	for i := 0; i < count; i++ {
		d, err := parseDim(r)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", i, err)
		}
		if d.IsUnlimited() {
			if unlimited++; unlimited > 1 {
				return nil, fmt.Errorf("%w: more than one unlimited dimension", ErrMalformed)
			}
		}
		dims = append(dims, d)
	}
	return dims, nil
}

func parseDim(r *binary.Reader) (*Dimension, error) {
	name, err := readValidName(r)
	if err != nil {
		return nil, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return &Dimension{Name: name, Length: int(length)}, nil
}

func parseAttList(r *binary.Reader) ([]*Attribute, error) {
	count, err := readListCount(r, tagAttribute)
	if err != nil {
		return nil, err
	}
	atts := make([]*Attribute, 0, count)
	for i := 0; i < count; i++ {
		a, err := parseAtt(r)
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		atts = append(atts, a)
	}
	return atts, nil
}

func parseAtt(r *binary.Reader) (*Attribute, error) {
	name, err := readValidName(r)
	if err != nil {
		return nil, err
	}
	typ, err := readType(r)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	width, err := nctype.Width(typ)
	if err != nil {
		return nil, err
	}
	if int64(count)*int64(width) > r.Size()-r.Pos() {
		return nil, fmt.Errorf("%w: attribute %q value count %d overflows file size",
			ErrMalformed, name, count)
	}

	a := &Attribute{Name: name, Type: typ}
	if typ == nctype.Char {
		raw, err := r.ReadBytes(int(count))
		if err != nil {
			return nil, err
		}
		a.Values = []interface{}{string(raw)}
	} else {
		a.Values = make([]interface{}, 0, count)
		for i := uint32(0); i < count; i++ {
			raw, err := r.ReadBytes(width)
			if err != nil {
				return nil, err
			}
			v, err := nctype.Decode(typ, raw)
			if err != nil {
				return nil, err
			}
			a.Values = append(a.Values, v)
		}
	}
	r.Align(4)
	return a, nil
}

func parseVarList(r *binary.Reader, h *Header) ([]*Variable, error) {
	count, err := readListCount(r, tagVariable)
	if err != nil {
		return nil, err
	}
	vars := make([]*Variable, 0, count)
	for i := 0; i < count; i++ {
		v, err := parseVar(r, h)
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i, err)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func parseVar(r *binary.Reader, h *Header) (*Variable, error) {
	name, err := readValidName(r)
	if err != nil {
		return nil, err
	}
	nDims, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if nDims > maxVarDims {
		return nil, fmt.Errorf("%w: variable %q has %d dimensions", ErrMalformed, name, nDims)
	}
	dimIDs := make([]int, 0, nDims)
	for i := uint32(0); i < nDims; i++ {
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		if int(id) >= len(h.Dimensions) {
			return nil, fmt.Errorf("%w: variable %q references dimension id %d of %d",
				ErrMalformed, name, id, len(h.Dimensions))
		}
		dimIDs = append(dimIDs, int(id))
	}

	atts, err := parseAttList(r)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	typ, err := readType(r)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	vsize, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	var begin int64
	switch h.Version {
	case VersionClassic:
		b, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		begin = int64(b)
	case Version64BitOffset:
		begin, err = r.ReadInt64()
		if err != nil {
			return nil, err
		}
	}

	return &Variable{
		Name:       name,
		DimIDs:     dimIDs,
		Type:       typ,
		Attributes: atts,
		VSize:      int64(vsize),
		Begin:      begin,
	}, nil
}

func readType(r *binary.Reader) (nctype.Type, error) {
	tag, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	typ := nctype.Type(tag)
	if !typ.Valid() {
		return 0, fmt.Errorf("%w: tag %d", nctype.ErrUnsupported, tag)
	}
	return typ, nil
}

// readValidName reads a padded name and applies the format's identifier rule:
// the first character must be alphanumeric or an underscore.
func readValidName(r *binary.Reader) (string, error) {
	name, err := r.ReadName()
	if err != nil {
		return "", err
	}
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty name", ErrMalformed)
	}
	// Multi-byte UTF-8 leading characters pass unchecked.
	c := name[0]
	if c < 0x80 && !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
		return "", fmt.Errorf("%w: name %q starts with invalid character", ErrMalformed, name)
	}
	return name, nil
}
