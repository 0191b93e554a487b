package capture

import "github.com/petems/meetcap/internal/audio"

// resolveDevice maps a requested device name to an endpoint. An exact
// name match on a capture endpoint wins, provided negotiation finds a
// usable shape for it; then an exact name match on a playback endpoint;
// then the role default: the default playback endpoint for the remote
// role, the default capture endpoint otherwise. false means no device
// currently serves the role, which is a normal outcome rather than an
// error.
func resolveDevice(h audio.Host, role Role, name string) (audio.Endpoint, bool) {
	caps, _ := h.CaptureEndpoints()
	plays, _ := h.PlaybackEndpoints()

	if name != "" {
		for _, ep := range caps {
			if ep.Name != name {
				continue
			}
			if _, ok := negotiate(h, ep); ok {
				return ep, true
			}
		}
		for _, ep := range plays {
			if ep.Name == name {
				return ep, true
			}
		}
	}

	if role == RoleRemote {
		return defaultEndpoint(plays)
	}
	return defaultEndpoint(caps)
}

// defaultEndpoint picks the endpoint flagged as system default, falling
// back to the first enumerated one.
func defaultEndpoint(eps []audio.Endpoint) (audio.Endpoint, bool) {
	for _, ep := range eps {
		if ep.Default {
			return ep, true
		}
	}
	if len(eps) > 0 {
		return eps[0], true
	}
	return audio.Endpoint{}, false
}
