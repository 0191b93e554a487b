package capture

import (
	"encoding/base64"

	"github.com/petems/meetcap/internal/wavenc"
)

// dispatcher drains a stream's accumulation buffer into chunk events
// and keeps level telemetry flowing while the buffer fills. All methods
// run under the owning stream's buffer lock.
type dispatcher struct {
	role       Role
	sampleRate int
	channels   int
	opts       Options
	sink       Sink
}

func newDispatcher(role Role, sampleRate, channels int, opts Options, sink Sink) *dispatcher {
	return &dispatcher{
		role:       role,
		sampleRate: sampleRate,
		channels:   channels,
		opts:       opts,
		sink:       sink,
	}
}

// check inspects the accumulation buffer after an append and returns
// what remains of it. Once the buffer exceeds the chunk limit it is
// drained in full; while it fills, a level event goes out roughly five
// times per second of accumulated audio. callbackPeak is the peak of
// the samples the triggering callback appended.
func (d *dispatcher) check(buf []int16, callbackPeak int16) []int16 {
	limit := d.sampleRate * d.channels * d.opts.ChunkSeconds
	if len(buf) > limit {
		// flush consumes the chunk synchronously, so the backing
		// array can be reused for the next accumulation run.
		d.flush(buf, callbackPeak)
		return buf[:0]
	}

	interval := d.sampleRate * d.channels / 5
	if interval > 0 && len(buf)%interval < d.channels*2 {
		d.sink.Emit(EventAudioChunk, Event{Role: d.role, Amplitude: callbackPeak})
	}
	return buf
}

// flush emits one bounded chunk. A chunk whose peak clears the
// amplitude gate carries the full WAV container; a quieter one degrades
// to telemetry so sustained silence stays cheap on the wire.
func (d *dispatcher) flush(chunk []int16, callbackPeak int16) {
	peak := peakAmplitude(chunk)
	if peak > d.opts.AmplitudeGate {
		wavData := wavenc.Encode(d.sampleRate, d.channels, chunk)
		d.sink.Emit(EventAudioChunk, Event{
			Role:      d.role,
			Data:      base64.StdEncoding.EncodeToString(wavData),
			Amplitude: peak,
		})
		return
	}
	d.sink.Emit(EventAudioChunk, Event{Role: d.role, Amplitude: callbackPeak})
}

// peakAmplitude returns the largest absolute sample value, capped at
// 32767 so full-scale negative input still fits the wire type.
func peakAmplitude(samples []int16) int16 {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak > 32767 {
		peak = 32767
	}
	return int16(peak)
}
