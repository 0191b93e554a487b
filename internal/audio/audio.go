// Package audio abstracts the platform audio host: endpoint discovery,
// stream shape probing and low-latency capture streams. The concrete
// backend is miniaudio; builds without cgo get a null host instead.
package audio

import "errors"

// ErrDisabled is returned by hosts compiled without audio support.
var ErrDisabled = errors.New("audio host disabled in this build")

// EndpointID identifies a device to the host backend. IDs are stable
// across enumerations for as long as the device stays connected.
type EndpointID string

// Endpoint is one audio device as reported by the host. Whether it is
// a capture or a playback device follows from the enumeration that
// returned it.
type Endpoint struct {
	ID      EndpointID
	Name    string
	Default bool
}

// SampleFormat is the wire encoding of samples delivered by a stream.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	// FormatS16 is signed 16-bit little-endian PCM.
	FormatS16
	// FormatU16 is unsigned 16-bit little-endian PCM with midpoint 32768.
	FormatU16
	// FormatF32 is IEEE 754 float little-endian PCM, nominally in [-1, 1].
	FormatF32
)

func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatU16:
		return "u16"
	case FormatF32:
		return "f32"
	default:
		return "unknown"
	}
}

// StreamConfig describes the shape of a capture stream: the interleaved
// sample encoding plus rate and channel count. Loopback marks configs
// that tap an output endpoint's playback signal instead of an input.
type StreamConfig struct {
	SampleRate uint32
	Channels   uint32
	Format     SampleFormat
	Loopback   bool
}

// DataFunc receives raw interleaved sample data on the realtime audio
// thread. len(raw) is frames * channels * sample size. The callback
// must not block.
type DataFunc func(raw []byte, frames uint32)

// StopFunc is invoked when the backend halts the stream on its own,
// for example when the device disappears.
type StopFunc func()

// CaptureStream is a running capture stream. Uninit releases the
// underlying device; no callbacks run after it returns.
type CaptureStream interface {
	Stop() error
	Uninit()
}

// Host is the platform audio backend.
type Host interface {
	CaptureEndpoints() ([]Endpoint, error)
	PlaybackEndpoints() ([]Endpoint, error)

	// DefaultCaptureConfig reports the endpoint's preferred capture
	// shape. false means the endpoint advertises no capture side.
	DefaultCaptureConfig(ep Endpoint) (StreamConfig, bool)
	// CaptureConfigs lists every capture shape the endpoint advertises.
	CaptureConfigs(ep Endpoint) []StreamConfig
	// DefaultPlaybackConfig reports the endpoint's preferred playback
	// shape, marked for loopback capture.
	DefaultPlaybackConfig(ep Endpoint) (StreamConfig, bool)

	// OpenCapture starts a stream on the endpoint with the given shape.
	// Loopback configs capture what the endpoint is playing.
	OpenCapture(ep Endpoint, cfg StreamConfig, data DataFunc, stop StopFunc) (CaptureStream, error)

	Close() error
}
