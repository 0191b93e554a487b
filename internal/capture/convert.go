package capture

import (
	"encoding/binary"
	"math"

	"github.com/petems/meetcap/internal/audio"
)

// sampleConverter decodes one raw interleaved block into canonical
// signed 16-bit samples, appending to dst.
type sampleConverter func(dst []int16, raw []byte) []int16

// converterFor returns the canonicalizing converter for a negotiated
// sample format, or nil when the format has no conversion path.
func converterFor(f audio.SampleFormat) sampleConverter {
	switch f {
	case audio.FormatS16:
		return appendS16
	case audio.FormatU16:
		return appendU16
	case audio.FormatF32:
		return appendF32
	default:
		return nil
	}
}

// appendS16 passes signed 16-bit little-endian samples through
// unchanged.
func appendS16(dst []int16, raw []byte) []int16 {
	for i := 0; i+1 < len(raw); i += 2 {
		dst = append(dst, int16(binary.LittleEndian.Uint16(raw[i:])))
	}
	return dst
}

// appendU16 recenters unsigned 16-bit samples around zero: 0 becomes
// -32768 and 65535 becomes 32767.
func appendU16(dst []int16, raw []byte) []int16 {
	for i := 0; i+1 < len(raw); i += 2 {
		dst = append(dst, int16(int(binary.LittleEndian.Uint16(raw[i:]))-32768))
	}
	return dst
}

// appendF32 clamps float samples to [-1, 1] and scales by 32767,
// truncating toward zero.
func appendF32(dst []int16, raw []byte) []int16 {
	for i := 0; i+3 < len(raw); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(raw[i:]))
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst = append(dst, int16(v*32767))
	}
	return dst
}
