package capture

import "github.com/petems/meetcap/internal/audio"

// negotiate picks the stream shape to open on an endpoint. It tries,
// in order: the endpoint's default capture shape, the best advertised
// capture shape, and the endpoint's default playback shape captured
// through loopback. false marks the endpoint unusable for this
// pipeline, which callers treat as absence rather than failure.
func negotiate(h audio.Host, ep audio.Endpoint) (audio.StreamConfig, bool) {
	if cfg, ok := h.DefaultCaptureConfig(ep); ok {
		return cfg, true
	}

	if cfgs := h.CaptureConfigs(ep); len(cfgs) > 0 {
		return bestConfig(cfgs), true
	}

	if cfg, ok := h.DefaultPlaybackConfig(ep); ok {
		return cfg, true
	}

	return audio.StreamConfig{}, false
}

// bestConfig ranks advertised shapes by sample encoding first and
// sample rate second, so a signed 16-bit shape beats a float one even
// at a lower rate, and the winning encoding runs at its highest rate.
func bestConfig(cfgs []audio.StreamConfig) audio.StreamConfig {
	best := cfgs[0]
	for _, c := range cfgs[1:] {
		if formatRank(c.Format) > formatRank(best.Format) ||
			(formatRank(c.Format) == formatRank(best.Format) && c.SampleRate > best.SampleRate) {
			best = c
		}
	}
	return best
}

// formatRank orders sample encodings by conversion fidelity: signed
// 16-bit needs no conversion, float needs scaling, everything else is
// a last resort.
func formatRank(f audio.SampleFormat) int {
	switch f {
	case audio.FormatS16:
		return 2
	case audio.FormatF32:
		return 1
	default:
		return 0
	}
}
