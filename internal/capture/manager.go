package capture

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/petems/meetcap/internal/audio"
)

// Config wires a Manager's collaborators.
type Config struct {
	Host    audio.Host
	Sink    Sink
	Logger  zerolog.Logger
	Options Options
}

// Manager owns the active capture streams and exposes the session
// control surface: device catalog, per-role start, and stop.
type Manager struct {
	host audio.Host
	sink Sink
	log  zerolog.Logger
	opts Options

	mu      sync.Mutex
	streams []*stream
}

// New creates a Manager.
func New(cfg Config) *Manager {
	return &Manager{
		host: cfg.Host,
		sink: cfg.Sink,
		log:  cfg.Logger,
		opts: cfg.Options.withDefaults(),
	}
}

// Devices returns the deduplicated catalog of selectable endpoints.
func (m *Manager) Devices() []DeviceInfo {
	return devices(m.host, m.log)
}

// Start resolves a device for the role, negotiates its stream shape
// and begins capturing into the shared sink. deviceName may be empty
// to take the role default. A session normally runs one stream per
// role; failure to start one leaves the others untouched, so fewer
// streams is a valid session.
func (m *Manager) Start(role Role, deviceName string) error {
	ep, ok := resolveDevice(m.host, role, deviceName)
	if !ok {
		return fmt.Errorf("%w for role %s (requested %q)", ErrNoDevice, role, deviceName)
	}

	cfg, ok := negotiate(m.host, ep)
	if !ok {
		return fmt.Errorf("%w on device %q", ErrNoUsableConfig, ep.Name)
	}

	s, err := openStream(m.host, role, ep, cfg, m.opts, m.sink, m.log)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.streams = append(m.streams, s)
	m.mu.Unlock()
	return nil
}

// Stop halts every active stream and clears the set. Samples still
// accumulating below the chunk limit are discarded with their streams:
// a session's final partial chunk is never emitted. Stop on an idle
// Manager is a no-op, so it is safe to call repeatedly.
func (m *Manager) Stop() {
	m.mu.Lock()
	streams := m.streams
	m.streams = nil
	m.mu.Unlock()

	// Uninit blocks until in-flight callbacks return, so it must not
	// run under the set lock.
	for _, s := range streams {
		s.close()
	}

	if len(streams) > 0 {
		m.log.Info().Int("streams", len(streams)).Msg("Capture stopped")
	}
}

// Active reports how many capture streams are running.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.streams)
}
