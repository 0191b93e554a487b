package capture

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/petems/meetcap/internal/audio"
)

// stream is one running capture pipeline: a host stream feeding the
// converter and dispatcher under a private buffer lock, so concurrent
// streams never contend with each other.
type stream struct {
	role Role
	dev  audio.Endpoint
	cs   audio.CaptureStream
	log  zerolog.Logger

	mu   sync.Mutex
	conv sampleConverter
	disp *dispatcher
	buf  []int16
}

// openStream starts capturing with an already negotiated shape and
// wires the realtime callback: decode to canonical samples, track the
// callback peak, hand the buffer to the dispatcher.
func openStream(h audio.Host, role Role, ep audio.Endpoint, cfg audio.StreamConfig, opts Options, sink Sink, log zerolog.Logger) (*stream, error) {
	conv := converterFor(cfg.Format)
	if conv == nil {
		return nil, fmt.Errorf("%w: device %q negotiated unsupported format %s", ErrStreamOpen, ep.Name, cfg.Format)
	}

	s := &stream{
		role: role,
		dev:  ep,
		log:  log,
		conv: conv,
		disp: newDispatcher(role, int(cfg.SampleRate), int(cfg.Channels), opts, sink),
	}

	cs, err := h.OpenCapture(ep, cfg, s.onData, s.onStop)
	if err != nil {
		return nil, fmt.Errorf("%w: device %q: %v", ErrStreamOpen, ep.Name, err)
	}
	s.cs = cs

	log.Info().
		Str("role", string(role)).
		Str("device", ep.Name).
		Uint32("rate", cfg.SampleRate).
		Uint32("channels", cfg.Channels).
		Str("format", cfg.Format.String()).
		Bool("loopback", cfg.Loopback).
		Msg("Capture stream started")

	return s, nil
}

// onData runs on the realtime audio thread.
func (s *stream) onData(raw []byte, _ uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.buf)
	s.buf = s.conv(s.buf, raw)
	callbackPeak := peakAmplitude(s.buf[start:])
	s.buf = s.disp.check(s.buf, callbackPeak)
}

// onStop fires when the host halts the stream on its own, e.g. the
// device went away. The session keeps running on whatever other streams
// remain.
func (s *stream) onStop() {
	s.log.Warn().
		Str("role", string(s.role)).
		Str("device", s.dev.Name).
		Msg("Capture stream stopped by host")
}

// close stops the hardware stream and releases it. Samples still
// accumulating below the chunk limit are dropped with the stream.
func (s *stream) close() {
	if err := s.cs.Stop(); err != nil {
		s.log.Debug().Err(err).Str("device", s.dev.Name).Msg("Stream stop reported an error")
	}
	s.cs.Uninit()
}
