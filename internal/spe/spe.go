// Package spe reads Princeton Instruments WinSpec (SPE 2.x) data files.
package spe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Header layout of SPE 2.x files. All values are little endian.
const (
	HeaderSize = 4100

	offExposure = 10   // float32, seconds
	offDate     = 20   // char[10], DDMONYYYY
	offXDim     = 42   // uint16
	offDataType = 108  // int16
	offTimeLoc  = 172  // char[7], HHMMSS
	offComments = 200  // char[5][80]
	offYDim     = 656  // uint16
	offFrames   = 1446 // int32

	commentLen   = 80
	commentCount = 5
)

// DataType is the storage format of the pixel values.
type DataType int16

const (
	Float32 DataType = 0
	Int32   DataType = 1
	Int16   DataType = 2
	Uint16  DataType = 3
)

func (d DataType) size() int {
	switch d {
	case Float32, Int32:
		return 4
	case Int16, Uint16:
		return 2
	}
	return 0
}

func (d DataType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	}
	return fmt.Sprintf("DataType(%d)", int16(d))
}

var (
	ErrShortFile    = errors.New("file is shorter than its header says")
	ErrBadDataType  = errors.New("unsupported data type")
	ErrBadDimension = errors.New("invalid dimensions")
	ErrDarkMismatch = errors.New("dark spectrum does not match")
)

// Header holds the acquisition parameters this viewer uses.
type Header struct {
	Exposure float32
	Date     string
	Time     string
	XDim     int
	YDim     int
	Frames   int
	DataType DataType
	Comments []string
}

// Spectrum is the content of one SPE file. Lum holds one value per pixel,
// averaged over all rows and frames. Wavelen holds pixel numbers starting at 1.
type Spectrum struct {
	Path    string
	Header  Header
	Wavelen []float64
	Lum     []float64
}

// Open reads and decodes the file at path.
func Open(path string) (*Spectrum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spectrum: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Decode parses a complete SPE file image.
func Decode(data []byte) (*Spectrum, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrShortFile)
	}
	le := binary.LittleEndian
	h := Header{
		Exposure: math.Float32frombits(le.Uint32(data[offExposure:])),
		Date:     cstring(data[offDate : offDate+10]),
		Time:     cstring(data[offTimeLoc : offTimeLoc+7]),
		XDim:     int(le.Uint16(data[offXDim:])),
		YDim:     int(le.Uint16(data[offYDim:])),
		Frames:   int(int32(le.Uint32(data[offFrames:]))),
		DataType: DataType(int16(le.Uint16(data[offDataType:]))),
	}
	for i := 0; i < commentCount; i++ {
		start := offComments + i*commentLen
		if c := strings.TrimSpace(cstring(data[start : start+commentLen])); c != "" {
			h.Comments = append(h.Comments, c)
		}
	}
	if h.YDim == 0 {
		h.YDim = 1
	}
	if h.Frames <= 0 {
		h.Frames = 1
	}
	if h.XDim == 0 {
		return nil, fmt.Errorf("xdim 0: %w", ErrBadDimension)
	}
	size := h.DataType.size()
	if size == 0 {
		return nil, fmt.Errorf("%s: %w", h.DataType, ErrBadDataType)
	}

	// Dimensions come from the file; bound each factor by the data present
	// before multiplying so the product cannot overflow.
	body := data[HeaderSize:]
	avail := len(body) / size
	if h.XDim > avail || h.YDim > avail/h.XDim || h.Frames > avail/(h.XDim*h.YDim) {
		return nil, fmt.Errorf("%d x %d x %d values of %s, have %d data bytes: %w",
			h.XDim, h.YDim, h.Frames, h.DataType, len(body), ErrShortFile)
	}
	n := h.XDim * h.YDim * h.Frames

	lum := make([]float64, h.XDim)
	for i := 0; i < n; i++ {
		lum[i%h.XDim] += value(body[i*size:], h.DataType)
	}
	rows := float64(h.YDim * h.Frames)
	wavelen := make([]float64, h.XDim)
	for i := range lum {
		lum[i] /= rows
		wavelen[i] = float64(i + 1)
	}
	return &Spectrum{Header: h, Wavelen: wavelen, Lum: lum}, nil
}

func value(b []byte, t DataType) float64 {
	le := binary.LittleEndian
	switch t {
	case Float32:
		return float64(math.Float32frombits(le.Uint32(b)))
	case Int32:
		return float64(int32(le.Uint32(b)))
	case Int16:
		return float64(int16(le.Uint16(b)))
	default:
		return float64(le.Uint16(b))
	}
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// BackgroundCorrect subtracts the spectrum stored in darkPath.
func (s *Spectrum) BackgroundCorrect(darkPath string) error {
	dark, err := Open(darkPath)
	if err != nil {
		return fmt.Errorf("background correct: %w", err)
	}
	return s.Subtract(dark)
}

// Subtract removes dark from s in place.
func (s *Spectrum) Subtract(dark *Spectrum) error {
	if len(dark.Lum) != len(s.Lum) {
		return fmt.Errorf("%d vs %d pixels: %w", len(dark.Lum), len(s.Lum), ErrDarkMismatch)
	}
	for i := range s.Lum {
		s.Lum[i] -= dark.Lum[i]
	}
	return nil
}

// FileInfo describes the acquisition in a few lines of text.
func (s *Spectrum) FileInfo() string {
	var b strings.Builder
	h := s.Header
	fmt.Fprintf(&b, "Date:      %s %s\n", h.Date, formatTime(h.Time))
	fmt.Fprintf(&b, "Exposure:  %g s\n", h.Exposure)
	fmt.Fprintf(&b, "Pixels:    %d x %d\n", h.XDim, h.YDim)
	fmt.Fprintf(&b, "Frames:    %d\n", h.Frames)
	fmt.Fprintf(&b, "Data type: %s", h.DataType)
	for _, c := range h.Comments {
		fmt.Fprintf(&b, "\nComment:   %s", c)
	}
	return b.String()
}

func formatTime(hhmmss string) string {
	if len(hhmmss) != 6 {
		return hhmmss
	}
	return hhmmss[0:2] + ":" + hhmmss[2:4] + ":" + hhmmss[4:6]
}
