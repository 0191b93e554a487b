package capture

import (
	"testing"

	"github.com/petems/meetcap/internal/audio"
)

func TestNegotiateDefaultCaptureWins(t *testing.T) {
	h := &fakeHost{
		defaultCapture: map[audio.EndpointID]audio.StreamConfig{
			"c1": {SampleRate: 44100, Channels: 2, Format: audio.FormatF32},
		},
		// Would rank higher, but must not be consulted while the
		// default shape exists.
		captureConfigs: map[audio.EndpointID][]audio.StreamConfig{
			"c1": {s16Config(48000, 2)},
		},
	}

	cfg, ok := negotiate(h, endpoint("c1", "Mic", true))
	if !ok {
		t.Fatal("expected a config")
	}
	if cfg.Format != audio.FormatF32 || cfg.SampleRate != 44100 {
		t.Errorf("expected the default capture config, got %+v", cfg)
	}
}

func TestNegotiateBestSupported(t *testing.T) {
	h := &fakeHost{
		captureConfigs: map[audio.EndpointID][]audio.StreamConfig{
			"c1": {
				{SampleRate: 96000, Channels: 2, Format: audio.FormatU16},
				{SampleRate: 48000, Channels: 2, Format: audio.FormatF32},
				{SampleRate: 16000, Channels: 1, Format: audio.FormatS16},
				{SampleRate: 44100, Channels: 2, Format: audio.FormatS16},
			},
		},
	}

	cfg, ok := negotiate(h, endpoint("c1", "Mic", true))
	if !ok {
		t.Fatal("expected a config")
	}
	if cfg.Format != audio.FormatS16 {
		t.Errorf("expected signed 16-bit to win, got %s", cfg.Format)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("expected the winning format at its highest rate, got %d", cfg.SampleRate)
	}
}

func TestNegotiateFloatBeatsOtherEncodings(t *testing.T) {
	h := &fakeHost{
		captureConfigs: map[audio.EndpointID][]audio.StreamConfig{
			"c1": {
				{SampleRate: 96000, Channels: 2, Format: audio.FormatU16},
				{SampleRate: 8000, Channels: 1, Format: audio.FormatF32},
			},
		},
	}

	cfg, ok := negotiate(h, endpoint("c1", "Mic", true))
	if !ok {
		t.Fatal("expected a config")
	}
	if cfg.Format != audio.FormatF32 {
		t.Errorf("expected float to outrank unsigned 16-bit, got %s", cfg.Format)
	}
}

func TestNegotiatePlaybackFallback(t *testing.T) {
	h := &fakeHost{
		defaultPlayback: map[audio.EndpointID]audio.StreamConfig{
			"p1": {SampleRate: 48000, Channels: 2, Format: audio.FormatF32, Loopback: true},
		},
	}

	cfg, ok := negotiate(h, endpoint("p1", "Speakers", true))
	if !ok {
		t.Fatal("expected a config")
	}
	if !cfg.Loopback {
		t.Error("expected a loopback config from the playback fallback")
	}
	if cfg.SampleRate != 48000 || cfg.Channels != 2 {
		t.Errorf("expected the playback shape, got %+v", cfg)
	}
}

func TestNegotiateUnusableEndpoint(t *testing.T) {
	if _, ok := negotiate(&fakeHost{}, endpoint("c1", "Mic", false)); ok {
		t.Fatal("expected no config from an endpoint with no shapes")
	}
}
