//go:build cgo && !noaudio

package audio

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"
)

type malgoHost struct {
	ctx *malgo.AllocatedContext
	log zerolog.Logger

	mu  sync.Mutex
	ids map[EndpointID]malgo.DeviceID
}

// New initializes the miniaudio backend.
func New(log zerolog.Logger) (Host, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug().Str("source", "miniaudio").Msg(strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	return &malgoHost{
		ctx: ctx,
		log: log,
		ids: make(map[EndpointID]malgo.DeviceID),
	}, nil
}

func (h *malgoHost) CaptureEndpoints() ([]Endpoint, error) {
	return h.endpoints(malgo.Capture, "capture")
}

func (h *malgoHost) PlaybackEndpoints() ([]Endpoint, error) {
	return h.endpoints(malgo.Playback, "playback")
}

func (h *malgoHost) endpoints(devType malgo.DeviceType, label string) ([]Endpoint, error) {
	infos, err := h.ctx.Devices(devType)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s devices: %w", label, err)
	}

	eps := make([]Endpoint, 0, len(infos))
	for _, info := range infos {
		eps = append(eps, Endpoint{
			ID:      h.register(info.ID),
			Name:    info.Name(),
			Default: info.IsDefault != 0,
		})
	}
	return eps, nil
}

// register maps the backend device ID to a stable string form so that
// endpoints survive round trips through enumeration and open.
func (h *malgoHost) register(did malgo.DeviceID) EndpointID {
	id := EndpointID(hex.EncodeToString(did[:]))
	h.mu.Lock()
	h.ids[id] = did
	h.mu.Unlock()
	return id
}

func (h *malgoHost) deviceID(id EndpointID) (malgo.DeviceID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	did, ok := h.ids[id]
	return did, ok
}

func (h *malgoHost) DefaultCaptureConfig(ep Endpoint) (StreamConfig, bool) {
	cfgs := h.dataFormats(malgo.Capture, ep)
	if len(cfgs) == 0 {
		return StreamConfig{}, false
	}
	// The first advertised format is the device native one.
	return cfgs[0], true
}

func (h *malgoHost) CaptureConfigs(ep Endpoint) []StreamConfig {
	return h.dataFormats(malgo.Capture, ep)
}

func (h *malgoHost) DefaultPlaybackConfig(ep Endpoint) (StreamConfig, bool) {
	cfgs := h.dataFormats(malgo.Playback, ep)
	if len(cfgs) == 0 {
		return StreamConfig{}, false
	}
	cfg := cfgs[0]
	cfg.Loopback = true
	return cfg, true
}

func (h *malgoHost) dataFormats(devType malgo.DeviceType, ep Endpoint) []StreamConfig {
	did, ok := h.deviceID(ep.ID)
	if !ok {
		return nil
	}

	full, err := h.ctx.DeviceInfo(devType, did, malgo.Shared)
	if err != nil {
		h.log.Warn().Err(err).Str("device", ep.Name).Msg("Device info query failed")
		return nil
	}

	n := int(full.FormatCount)
	if n > len(full.Formats) {
		n = len(full.Formats)
	}

	cfgs := make([]StreamConfig, 0, n)
	for _, f := range full.Formats[:n] {
		cfgs = append(cfgs, StreamConfig{
			SampleRate: f.SampleRate,
			Channels:   f.Channels,
			Format:     fromMalgoFormat(f.Format),
		})
	}
	return cfgs
}

func (h *malgoHost) OpenCapture(ep Endpoint, cfg StreamConfig, data DataFunc, stop StopFunc) (CaptureStream, error) {
	did, ok := h.deviceID(ep.ID)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", ep.Name)
	}

	format, ok := toMalgoFormat(cfg.Format)
	if !ok {
		return nil, fmt.Errorf("no backend format for %s", cfg.Format)
	}

	devType := malgo.Capture
	if cfg.Loopback {
		devType = malgo.Loopback
	}

	devCfg := malgo.DefaultDeviceConfig(devType)
	devCfg.SampleRate = cfg.SampleRate
	devCfg.Capture.Format = format
	devCfg.Capture.Channels = cfg.Channels
	devCfg.Capture.DeviceID = did.Pointer()
	devCfg.Alsa.NoMMap = 1

	dev, err := malgo.InitDevice(h.ctx.Context, devCfg, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frames uint32) {
			data(input, frames)
		},
		Stop: malgo.StopProc(stop),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init stream on %q: %w", ep.Name, err)
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, fmt.Errorf("failed to start stream on %q: %w", ep.Name, err)
	}

	return &malgoStream{dev: dev}, nil
}

func (h *malgoHost) Close() error {
	err := h.ctx.Uninit()
	h.ctx.Free()
	return err
}

func fromMalgoFormat(f malgo.FormatType) SampleFormat {
	// miniaudio has no unsigned 16-bit format; FormatU16 only ever
	// arrives from other hosts.
	switch f {
	case malgo.FormatS16:
		return FormatS16
	case malgo.FormatF32:
		return FormatF32
	default:
		return FormatUnknown
	}
}

func toMalgoFormat(f SampleFormat) (malgo.FormatType, bool) {
	switch f {
	case FormatS16:
		return malgo.FormatS16, true
	case FormatF32:
		return malgo.FormatF32, true
	default:
		return malgo.FormatUnknown, false
	}
}

type malgoStream struct {
	dev *malgo.Device
}

func (s *malgoStream) Stop() error {
	return s.dev.Stop()
}

func (s *malgoStream) Uninit() {
	s.dev.Uninit()
}
