package capture

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/petems/meetcap/internal/audio"
)

func TestDevicesCatalog(t *testing.T) {
	h := &fakeHost{
		captureEps: []audio.Endpoint{
			endpoint("c1", "Built-in Microphone", true),
			endpoint("c2", "VB-Cable LOOPBACK", false),
			endpoint("c3", "Built-in Microphone", false), // duplicate name
		},
		playbackEps: []audio.Endpoint{
			endpoint("p1", "Speakers", true),
			endpoint("p2", "Built-in Microphone", false), // name claimed by capture side
		},
	}

	got := devices(h, zerolog.Nop())

	want := []DeviceInfo{
		{Name: "Built-in Microphone", Kind: KindCapture},
		{Name: "VB-Cable LOOPBACK", Kind: KindLoopback},
		{Name: "Speakers", Kind: KindPlayback},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestDevicesEnumerationFailure(t *testing.T) {
	h := &fakeHost{
		captureErr: errors.New("backend unavailable"),
		playbackEps: []audio.Endpoint{
			endpoint("p1", "Speakers", true),
		},
	}

	got := devices(h, zerolog.Nop())
	if len(got) != 1 {
		t.Fatalf("expected the playback entry only, got %v", got)
	}
	if got[0].Name != "Speakers" || got[0].Kind != KindPlayback {
		t.Errorf("expected Speakers/playback, got %+v", got[0])
	}
}
