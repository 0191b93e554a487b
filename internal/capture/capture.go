// Package capture turns live audio from a microphone and a looped-back
// playback endpoint into bounded WAV chunks and amplitude telemetry,
// delivered as events to a sink. Heterogeneous device formats are
// normalized to signed 16-bit PCM on the way in, so consumers see one
// canonical encoding regardless of hardware.
package capture

import "errors"

// Role names the two capture sides of a meeting.
type Role string

const (
	// RoleLocal is the near end, normally a microphone.
	RoleLocal Role = "local"
	// RoleRemote is the far end, captured by looping back whatever a
	// playback endpoint is rendering.
	RoleRemote Role = "remote"
)

// The non-fatal failure classes of Start. A failed role leaves the
// session running on whatever streams did start.
var (
	// ErrNoDevice means no endpoint could be resolved for the role.
	ErrNoDevice = errors.New("no usable device")
	// ErrNoUsableConfig means the resolved endpoint advertises no
	// stream shape this pipeline can open.
	ErrNoUsableConfig = errors.New("no usable stream config")
	// ErrStreamOpen means the host refused to open or start the stream.
	ErrStreamOpen = errors.New("stream open failed")
)

const (
	defaultChunkSeconds  = 6
	defaultAmplitudeGate = 800
)

// Options tunes the chunking behavior. Zero values select the defaults.
type Options struct {
	// ChunkSeconds bounds each emitted chunk's duration. Default 6.
	ChunkSeconds int
	// AmplitudeGate is the peak a chunk must exceed to carry audio
	// data; chunks at or below it degrade to telemetry. Default 800.
	AmplitudeGate int16
}

func (o Options) withDefaults() Options {
	if o.ChunkSeconds <= 0 {
		o.ChunkSeconds = defaultChunkSeconds
	}
	if o.AmplitudeGate <= 0 {
		o.AmplitudeGate = defaultAmplitudeGate
	}
	return o
}
