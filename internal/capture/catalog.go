package capture

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/petems/meetcap/internal/audio"
)

// DeviceKind classifies a catalog entry for selection surfaces.
type DeviceKind string

const (
	// KindCapture is a plain input such as a microphone.
	KindCapture DeviceKind = "capture"
	// KindLoopback is an input that already taps an output signal,
	// e.g. a virtual "loopback" cable.
	KindLoopback DeviceKind = "loopback"
	// KindPlayback is an output endpoint, capturable through loopback.
	KindPlayback DeviceKind = "playback"
)

// DeviceInfo is one selectable entry in the device catalog.
type DeviceInfo struct {
	Name string     `json:"name"`
	Kind DeviceKind `json:"kind"`
}

// devices builds the deduplicated device catalog. Names are unique and
// the first occurrence wins, so an endpoint visible on both sides is
// listed once under its capture kind. Enumeration failures degrade to
// an empty contribution from that side.
func devices(h audio.Host, log zerolog.Logger) []DeviceInfo {
	var infos []DeviceInfo
	seen := make(map[string]bool)

	caps, err := h.CaptureEndpoints()
	if err != nil {
		log.Warn().Err(err).Msg("Capture device enumeration failed")
	}
	for _, ep := range caps {
		if seen[ep.Name] {
			continue
		}
		seen[ep.Name] = true

		kind := KindCapture
		if strings.Contains(strings.ToLower(ep.Name), "loopback") {
			kind = KindLoopback
		}
		infos = append(infos, DeviceInfo{Name: ep.Name, Kind: kind})
	}

	plays, err := h.PlaybackEndpoints()
	if err != nil {
		log.Warn().Err(err).Msg("Playback device enumeration failed")
	}
	for _, ep := range plays {
		if seen[ep.Name] {
			continue
		}
		seen[ep.Name] = true
		infos = append(infos, DeviceInfo{Name: ep.Name, Kind: KindPlayback})
	}

	return infos
}
