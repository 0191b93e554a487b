//go:build !cgo || noaudio

package audio

import "github.com/rs/zerolog"

// nullHost satisfies Host for builds without the miniaudio backend.
// Every enumeration and open fails with ErrDisabled.
type nullHost struct{}

// New returns the null host.
func New(log zerolog.Logger) (Host, error) {
	log.Warn().Msg("Audio host disabled in this build")
	return nullHost{}, nil
}

func (nullHost) CaptureEndpoints() ([]Endpoint, error)  { return nil, ErrDisabled }
func (nullHost) PlaybackEndpoints() ([]Endpoint, error) { return nil, ErrDisabled }

func (nullHost) DefaultCaptureConfig(Endpoint) (StreamConfig, bool)  { return StreamConfig{}, false }
func (nullHost) CaptureConfigs(Endpoint) []StreamConfig              { return nil }
func (nullHost) DefaultPlaybackConfig(Endpoint) (StreamConfig, bool) { return StreamConfig{}, false }

func (nullHost) OpenCapture(Endpoint, StreamConfig, DataFunc, StopFunc) (CaptureStream, error) {
	return nil, ErrDisabled
}

func (nullHost) Close() error { return nil }
