package spe

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Encode builds a single-row, single-frame SPE file with float32 data.
// Only the header fields read by Decode are filled in.
func Encode(h Header, lum []float64) []byte {
	le := binary.LittleEndian
	buf := make([]byte, HeaderSize+4*len(lum))
	le.PutUint32(buf[offExposure:], math.Float32bits(h.Exposure))
	copy(buf[offDate:offDate+10], h.Date)
	copy(buf[offTimeLoc:offTimeLoc+7], h.Time)
	le.PutUint16(buf[offXDim:], uint16(len(lum)))
	le.PutUint16(buf[offYDim:], 1)
	le.PutUint32(buf[offFrames:], 1)
	le.PutUint16(buf[offDataType:], uint16(Float32))
	for i, c := range h.Comments {
		if i == commentCount {
			break
		}
		start := offComments + i*commentLen
		copy(buf[start:start+commentLen-1], c)
	}
	for i, v := range lum {
		le.PutUint32(buf[HeaderSize+4*i:], math.Float32bits(float32(v)))
	}
	return buf
}

// WriteFile encodes lum into a new SPE file at path.
func WriteFile(path string, h Header, lum []float64) error {
	if err := os.WriteFile(path, Encode(h, lum), 0644); err != nil {
		return fmt.Errorf("write spectrum: %w", err)
	}
	return nil
}
