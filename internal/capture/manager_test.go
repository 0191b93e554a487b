package capture

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-audio/wav"
	"github.com/rs/zerolog"

	"github.com/petems/meetcap/internal/audio"
)

// speakersOnlyHost models a machine with no microphone at all: one
// default playback endpoint whose signal can be looped back.
func speakersOnlyHost() *fakeHost {
	return &fakeHost{
		playbackEps: []audio.Endpoint{endpoint("p1", "Speakers", true)},
		defaultPlayback: map[audio.EndpointID]audio.StreamConfig{
			"p1": {SampleRate: 16000, Channels: 1, Format: audio.FormatS16, Loopback: true},
		},
	}
}

func TestStartRemoteLoopbackDefault(t *testing.T) {
	h := speakersOnlyHost()
	m := New(Config{Host: h, Sink: &recordSink{}, Logger: zerolog.Nop()})

	if err := m.Start(RoleRemote, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if m.Active() != 1 {
		t.Fatalf("expected 1 active stream, got %d", m.Active())
	}

	if len(h.opened) != 1 {
		t.Fatalf("expected 1 opened stream, got %d", len(h.opened))
	}
	opened := h.opened[0]
	if opened.ep.Name != "Speakers" {
		t.Errorf("expected the default playback endpoint, got %q", opened.ep.Name)
	}
	if !opened.cfg.Loopback {
		t.Error("expected a loopback stream config")
	}
}

func TestStartFailureClasses(t *testing.T) {
	m := New(Config{Host: &fakeHost{}, Sink: &recordSink{}, Logger: zerolog.Nop()})
	if err := m.Start(RoleRemote, ""); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}

	h := &fakeHost{captureEps: []audio.Endpoint{endpoint("c1", "Mic", true)}}
	m = New(Config{Host: h, Sink: &recordSink{}, Logger: zerolog.Nop()})
	if err := m.Start(RoleLocal, ""); !errors.Is(err, ErrNoUsableConfig) {
		t.Errorf("expected ErrNoUsableConfig, got %v", err)
	}

	h = speakersOnlyHost()
	h.openErr = errors.New("device busy")
	m = New(Config{Host: h, Sink: &recordSink{}, Logger: zerolog.Nop()})
	if err := m.Start(RoleRemote, ""); !errors.Is(err, ErrStreamOpen) {
		t.Errorf("expected ErrStreamOpen, got %v", err)
	}

	if m.Active() != 0 {
		t.Errorf("expected no active streams after failures, got %d", m.Active())
	}
}

func TestStartRejectsUnknownNegotiatedFormat(t *testing.T) {
	h := &fakeHost{
		captureEps: []audio.Endpoint{endpoint("c1", "Odd Mic", true)},
		defaultCapture: map[audio.EndpointID]audio.StreamConfig{
			"c1": {SampleRate: 48000, Channels: 1, Format: audio.FormatUnknown},
		},
	}
	m := New(Config{Host: h, Sink: &recordSink{}, Logger: zerolog.Nop()})

	if err := m.Start(RoleLocal, ""); !errors.Is(err, ErrStreamOpen) {
		t.Errorf("expected ErrStreamOpen for an unconvertible format, got %v", err)
	}
	if len(h.opened) != 0 {
		t.Error("expected the open to be rejected before reaching the host")
	}
}

func TestStopIdempotent(t *testing.T) {
	h := speakersOnlyHost()
	m := New(Config{Host: h, Sink: &recordSink{}, Logger: zerolog.Nop()})

	m.Stop() // stop before any start is a no-op

	if err := m.Start(RoleRemote, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	m.Stop()
	if m.Active() != 0 {
		t.Fatalf("expected no active streams after stop, got %d", m.Active())
	}
	if !h.opened[0].stopped || !h.opened[0].uninited {
		t.Error("expected the stream to be stopped and released")
	}

	m.Stop()
	if m.Active() != 0 {
		t.Fatal("expected repeated stops to stay no-ops")
	}
}

func TestStopDiscardsPartialBuffer(t *testing.T) {
	h := speakersOnlyHost()
	sink := &recordSink{}
	m := New(Config{Host: h, Sink: sink, Logger: zerolog.Nop()})

	if err := m.Start(RoleRemote, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	h.opened[0].data(make([]byte, 2*100), 100) // well under every boundary
	m.Stop()

	if n := len(sink.all()); n != 0 {
		t.Fatalf("expected the partial buffer to be dropped silently, got %d events", n)
	}
}

func TestEndToEndRemoteSilence(t *testing.T) {
	// A remote session on a machine whose only endpoint is the default
	// speakers: 200 ms of looped-back silence yields exactly one level
	// event and no audio payload.
	h := speakersOnlyHost()
	sink := &recordSink{}
	m := New(Config{Host: h, Sink: sink, Logger: zerolog.Nop()})

	if err := m.Start(RoleRemote, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer m.Stop()

	// 200 ms at 16 kHz mono signed 16-bit: 3200 zero samples.
	h.opened[0].data(make([]byte, 3200*2), 3200)

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	evt := events[0]
	if evt.Role != RoleRemote {
		t.Errorf("expected role remote, got %q", evt.Role)
	}
	if evt.Data != "" {
		t.Error("expected no audio payload for silence")
	}
	if evt.Amplitude != 0 {
		t.Errorf("expected amplitude 0, got %d", evt.Amplitude)
	}
	if sink.names[0] != EventAudioChunk {
		t.Errorf("expected event name %q, got %q", EventAudioChunk, sink.names[0])
	}
}

func TestEndToEndSpeechChunk(t *testing.T) {
	h := speakersOnlyHost()
	sink := &recordSink{}
	m := New(Config{Host: h, Sink: sink, Logger: zerolog.Nop()})

	if err := m.Start(RoleRemote, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer m.Stop()

	// One sample past the six-second limit, loud enough for the gate.
	n := 96001
	raw := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(int16(1000)))
	}
	h.opened[0].data(raw, uint32(n))

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one chunk event, got %d", len(events))
	}
	evt := events[0]
	if evt.Amplitude != 1000 {
		t.Errorf("expected amplitude 1000, got %d", evt.Amplitude)
	}

	wavBytes, err := base64.StdEncoding.DecodeString(evt.Data)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	dec := wav.NewDecoder(bytes.NewReader(wavBytes))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("payload is not a readable WAV file: %v", err)
	}
	if dec.SampleRate != 16000 || dec.NumChans != 1 {
		t.Errorf("expected 16 kHz mono, got %d Hz %d ch", dec.SampleRate, dec.NumChans)
	}
	if len(buf.Data) != n {
		t.Fatalf("expected %d samples in the container, got %d", n, len(buf.Data))
	}
	for i, v := range buf.Data {
		if v != 1000 {
			t.Fatalf("sample %d: expected 1000, got %d", i, v)
		}
	}
}
