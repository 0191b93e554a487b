// Package wavenc renders canonical signed 16-bit PCM into an in-memory
// WAV container.
package wavenc

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encode builds a complete WAV file around the given interleaved
// samples. The output is deterministic: identical input yields
// identical bytes. Inputs are produced locally by the capture pipeline,
// so an encoder failure is a bug and panics.
func Encode(sampleRate, channels int, samples []int16) []byte {
	buf := &seekBuffer{}
	enc := wav.NewEncoder(buf, sampleRate, 16, channels, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		panic(fmt.Sprintf("wavenc: write PCM data: %v", err))
	}
	if err := enc.Close(); err != nil {
		panic(fmt.Sprintf("wavenc: finalize container: %v", err))
	}

	return buf.data
}

// seekBuffer is an in-memory io.WriteSeeker. The wav encoder seeks back
// over the RIFF and data headers on Close to patch the chunk sizes.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		if need <= cap(b.data) {
			b.data = b.data[:need]
		} else {
			grown := make([]byte, need, need*2)
			copy(grown, b.data)
			b.data = grown
		}
	}
	b.pos += copy(b.data[b.pos:], p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("wavenc: invalid seek whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("wavenc: seek to negative offset %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}
