package spe

import (
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFloat(t *testing.T) {
	h := Header{Exposure: 1.5, Date: "02OCT2014", Time: "150230", Comments: []string{"polystyrene", "", "laser 785"}}
	s, err := Decode(Encode(h, []float64{10, 20.5, -3}))
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, s.Wavelen)
	assert.Equal(t, []float64{10, 20.5, -3}, s.Lum)
	assert.Equal(t, 3, s.Header.XDim)
	assert.Equal(t, 1, s.Header.YDim)
	assert.Equal(t, Float32, s.Header.DataType)
	assert.Equal(t, []string{"polystyrene", "laser 785"}, s.Header.Comments)

	info := s.FileInfo()
	assert.Contains(t, info, "02OCT2014 15:02:30")
	assert.Contains(t, info, "Exposure:  1.5 s")
	assert.Contains(t, info, "Comment:   laser 785")
}

func TestDecodeAveragesRowsAndFrames(t *testing.T) {
	le := binary.LittleEndian
	buf := make([]byte, HeaderSize+2*2*2*2) // xdim 2, ydim 2, 2 frames, uint16
	le.PutUint16(buf[offXDim:], 2)
	le.PutUint16(buf[offYDim:], 2)
	le.PutUint32(buf[offFrames:], 2)
	le.PutUint16(buf[offDataType:], uint16(Uint16))
	for i, v := range []uint16{1, 10, 3, 10, 5, 20, 7, 40} {
		le.PutUint16(buf[HeaderSize+2*i:], v)
	}
	s, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 20}, s.Lum)
}

func TestDecodeSignedTypes(t *testing.T) {
	le := binary.LittleEndian
	buf := make([]byte, HeaderSize+2*4)
	le.PutUint16(buf[offXDim:], 2)
	le.PutUint16(buf[offDataType:], uint16(Int32))
	le.PutUint32(buf[HeaderSize:], uint32(0xFFFFFFFE)) // -2
	le.PutUint32(buf[HeaderSize+4:], 7)
	s, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 7}, s.Lum)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(make([]byte, 100))
	assert.True(t, errors.Is(err, ErrShortFile))

	buf := make([]byte, HeaderSize)
	_, err = Decode(buf)
	assert.True(t, errors.Is(err, ErrBadDimension))

	binary.LittleEndian.PutUint16(buf[offXDim:], 4)
	binary.LittleEndian.PutUint16(buf[offDataType:], 9)
	_, err = Decode(buf)
	assert.True(t, errors.Is(err, ErrBadDataType))

	binary.LittleEndian.PutUint16(buf[offDataType:], uint16(Float32))
	_, err = Decode(buf)
	assert.True(t, errors.Is(err, ErrShortFile), "header promises data that is not there")
}

func TestDecodeHugeDimensions(t *testing.T) {
	le := binary.LittleEndian
	buf := make([]byte, HeaderSize+16)
	le.PutUint16(buf[offXDim:], 0xffff)
	le.PutUint16(buf[offYDim:], 0xffff)
	le.PutUint32(buf[offFrames:], 0x7fffffff)
	le.PutUint16(buf[offDataType:], uint16(Float32))

	var err error
	require.NotPanics(t, func() { _, err = Decode(buf) })
	assert.True(t, errors.Is(err, ErrShortFile))

	// each factor fits on its own, the product does not
	le.PutUint16(buf[offXDim:], 4)
	le.PutUint16(buf[offYDim:], 2)
	le.PutUint32(buf[offFrames:], 1)
	require.NotPanics(t, func() { _, err = Decode(buf) })
	assert.True(t, errors.Is(err, ErrShortFile))

	le.PutUint16(buf[offYDim:], 1)
	s, err := Decode(buf)
	require.NoError(t, err)
	assert.Len(t, s.Lum, 4)
}

func TestBackgroundCorrect(t *testing.T) {
	dir := t.TempDir()
	sample := filepath.Join(dir, "sample.SPE")
	dark := filepath.Join(dir, "sampledark.SPE")
	short := filepath.Join(dir, "short.SPE")
	require.NoError(t, WriteFile(sample, Header{}, []float64{5, 6, 7}))
	require.NoError(t, WriteFile(dark, Header{}, []float64{1, 1, 2}))
	require.NoError(t, WriteFile(short, Header{}, []float64{1}))

	s, err := Open(sample)
	require.NoError(t, err)
	require.NoError(t, s.BackgroundCorrect(dark))
	assert.Equal(t, []float64{4, 5, 5}, s.Lum)

	assert.True(t, errors.Is(s.BackgroundCorrect(short), ErrDarkMismatch))
	assert.Error(t, s.BackgroundCorrect(filepath.Join(dir, "missing.SPE")))
}
