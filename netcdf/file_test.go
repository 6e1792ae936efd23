package netcdf

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFile is the canonical fixture: an unlimited time axis, a 3x4 grid, a
// record variable and coordinate variables for every axis.
func gridFile() tFile {
	return tFile{
		version: VersionClassic,
		numRecs: 2,
		records: 2,
		dims: []tDim{
			{name: "time", length: 0},
			{name: "lat", length: 3},
			{name: "lon", length: 4},
		},
		gatts: []tAttr{
			{name: "title", typ: Char, text: "test"},
			{name: "spacing", typ: Short, vals: []float64{7}},
		},
		vars: []tVar{
			{name: "lat", dims: []int{1}, typ: Float, data: []float64{-30, 0, 30}},
			{name: "lon", dims: []int{2}, typ: Float, data: []float64{0, 90, 180, 270}},
			{name: "time", dims: []int{0}, typ: Int, data: []float64{6, 12}},
			{name: "temperature", dims: []int{0, 1, 2}, typ: Float,
				data: gridData(2, 3, 4)},
		},
	}
}

// gridData fills records*ny*nx values as 100*rec + 10*y + x.
func gridData(records, ny, nx int) []float64 {
	data := make([]float64, 0, records*ny*nx)
	for r := 0; r < records; r++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data = append(data, float64(100*r+10*y+x))
			}
		}
	}
	return data
}

func TestOpenHeader(t *testing.T) {
	f, err := openT(gridFile().build())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, VersionClassic, f.Version())
	assert.Equal(t, 2, f.NumRecords())
	assert.NoError(t, f.LayoutWarning())

	dims := f.Dimensions()
	require.Len(t, dims, 3)
	assert.Equal(t, "time", dims[0].Name())
	assert.True(t, dims[0].IsUnlimited())
	assert.Equal(t, 2, dims[0].Len())
	assert.Equal(t, 0, dims[0].DeclaredLen())
	assert.Equal(t, 3, f.Dimension("lat").Len())
	assert.Nil(t, f.Dimension("depth"))

	vars := f.Variables()
	require.Len(t, vars, 4)
	temp := f.Variable("temperature")
	require.NotNil(t, temp)
	assert.Equal(t, Float, temp.Type())
	assert.Equal(t, []string{"time", "lat", "lon"}, temp.DimensionNames())
	assert.Equal(t, []int{2, 3, 4}, temp.Shape())
	assert.True(t, temp.IsRecord())
	assert.False(t, temp.IsCoordinate())
	assert.True(t, f.Variable("lat").IsCoordinate())
	assert.False(t, f.Variable("lat").IsRecord())
	assert.True(t, f.Variable("time").IsRecord())
	assert.Nil(t, f.Variable("pressure"))
}

func TestGlobalAttributes(t *testing.T) {
	f, err := openT(gridFile().build())
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, f.Attributes(), 2)

	title := f.Attribute("title")
	require.NotNil(t, title)
	assert.Equal(t, Char, title.Type())
	assert.Equal(t, 4, title.Len())
	text, ok := title.Text()
	require.True(t, ok)
	assert.Equal(t, "test", text)

	// The short attribute after the padded char value decodes correctly only
	// if the padding was consumed.
	spacing := f.Attribute("spacing")
	require.NotNil(t, spacing)
	assert.Equal(t, Short, spacing.Type())
	v, ok := spacing.Float64()
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	assert.Nil(t, f.Attribute("missing"))
}

func TestCharPaddingContentIgnored(t *testing.T) {
	// Padding bytes after a char attribute value need not be zero. "test" is
	// already aligned, so shorten the title to force real padding.
	spec := gridFile()
	spec.gatts[0].text = "hi"
	data := spec.build()
	// Locate "hi" and scribble over its two padding bytes.
	i := bytes.Index(data, []byte("hi\x00\x00"))
	require.GreaterOrEqual(t, i, 0)
	data[i+2], data[i+3] = 0xAB, 0xCD

	f, err := openT(data)
	require.NoError(t, err)
	defer f.Close()
	text, ok := f.Attribute("title").Text()
	require.True(t, ok)
	assert.Equal(t, "hi", text)
	v, ok := f.Attribute("spacing").Float64()
	require.True(t, ok)
	assert.Equal(t, 7.0, v)
}

func Test64BitOffsetVariant(t *testing.T) {
	spec := gridFile()
	spec.version = Version64BitOffset
	f, err := openT(spec.build())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, Version64BitOffset, f.Version())
	rows, err := f.Variable("temperature").Read2D("lat", "lon", map[string]int{"time": 1})
	require.NoError(t, err)
	assert.Equal(t, 112.0, rows[1][2])
}

func TestNonRecordRangesDisjoint(t *testing.T) {
	spec := tFile{
		version: VersionClassic,
		dims: []tDim{
			{name: "x", length: 5},
			{name: "y", length: 3},
		},
		vars: []tVar{
			{name: "a", dims: []int{0}, typ: Short, data: []float64{1, 2, 3, 4, 5}},
			{name: "b", dims: []int{1, 0}, typ: Double, data: make([]float64, 15)},
			{name: "c", dims: []int{1}, typ: Byte, data: []float64{1, 2, 3}},
		},
	}
	f, err := openT(spec.build())
	require.NoError(t, err)
	defer f.Close()

	type span struct{ begin, end int64 }
	var spans []span
	for _, v := range f.Variables() {
		require.False(t, v.IsRecord())
		spans = append(spans, span{v.Begin(), v.Begin() + v.VSize()})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].begin < spans[j].begin })
	for i := 1; i < len(spans); i++ {
		assert.GreaterOrEqual(t, spans[i].begin, spans[i-1].end,
			"variable byte ranges must not overlap")
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", []byte("CDX\x01\x00\x00\x00\x00"), ErrNotNetCDF},
		{"two byte file", []byte("CD"), ErrTruncated},
		{"unsupported version", []byte("CDF\x03\x00\x00\x00\x00"), ErrUnsupportedVersion},
		{"hdf5 container", append([]byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}, make([]byte, 8)...), ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openT(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnsupportedTypeTag(t *testing.T) {
	spec := gridFile()
	data := spec.build()
	// Corrupt the type tag of the "spacing" attribute (NC_SHORT = 3).
	i := bytes.Index(data, []byte("spacing"))
	require.GreaterOrEqual(t, i, 0)
	// name is padded to 8 bytes, tag follows
	tagOff := i + 8
	data[tagOff], data[tagOff+1], data[tagOff+2], data[tagOff+3] = 0, 0, 0, 42

	_, err := openT(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.NotErrorIs(t, err, ErrMalformedHeader)
}

func TestTruncatedHeader(t *testing.T) {
	data := gridFile().build()
	_, err := openT(data[:20])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestClosedFile(t *testing.T) {
	f, err := openT(gridFile().build())
	require.NoError(t, err)
	temp := f.Variable("temperature")
	require.NoError(t, f.Close())
	require.NoError(t, f.Close()) // idempotent

	_, err = f.ReadDimensionValues("lat")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = temp.Read2D("lat", "lon", map[string]int{"time": 0})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = temp.ReadDense()
	assert.ErrorIs(t, err, ErrClosed)
}
