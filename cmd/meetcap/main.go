package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/petems/meetcap/internal/audio"
	"github.com/petems/meetcap/internal/capture"
	"github.com/petems/meetcap/internal/config"
	"github.com/petems/meetcap/internal/logging"
	"github.com/petems/meetcap/internal/permissions"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	list := flag.Bool("list", false, "list audio devices and exit")
	local := flag.String("local", "", "device name for the local microphone role")
	remote := flag.String("remote", "", "device name for the remote loopback role")
	chunkSeconds := flag.Int("chunk-seconds", 0, "seconds of audio per emitted chunk")
	gate := flag.Int("gate", 0, "peak amplitude a chunk must exceed to carry audio")
	saveConfig := flag.Bool("save-config", false, "persist the effective selection for future runs")
	flag.Parse()

	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// Flags win over the config file
	if *local == "" {
		*local = cfg.Devices.Local
	}
	if *remote == "" {
		*remote = cfg.Devices.Remote
	}
	if *chunkSeconds == 0 {
		*chunkSeconds = cfg.Capture.ChunkSeconds
	}
	if *gate == 0 {
		*gate = cfg.Capture.AmplitudeGate
	}

	if *saveConfig {
		cfg.Devices.Local = *local
		cfg.Devices.Remote = *remote
		cfg.Capture.ChunkSeconds = *chunkSeconds
		cfg.Capture.AmplitudeGate = *gate
		if err := cfg.Save(); err != nil {
			log.Error().Err(err).Msg("Failed to save config")
		}
	}

	// Initialize the audio host
	host, err := audio.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio host")
	}
	defer host.Close()

	mgr := capture.New(capture.Config{
		Host:   host,
		Sink:   newJSONSink(os.Stdout),
		Logger: log,
		Options: capture.Options{
			ChunkSeconds:  *chunkSeconds,
			AmplitudeGate: int16(*gate),
		},
	})

	if *list {
		for _, d := range mgr.Devices() {
			fmt.Printf("%-9s %s\n", d.Kind, d.Name)
		}
		return
	}

	// macOS prompts for microphone access before the first stream opens
	if err := permissions.EnsurePermissions(); err != nil {
		log.Warn().Err(err).Msg("Microphone access not granted; the local role may be unavailable")
	}

	// A role that cannot start degrades the session instead of ending it
	if err := mgr.Start(capture.RoleLocal, *local); err != nil {
		log.Warn().Err(err).Msg("Local capture unavailable")
	}
	if err := mgr.Start(capture.RoleRemote, *remote); err != nil {
		log.Warn().Err(err).Msg("Remote capture unavailable")
	}
	if mgr.Active() == 0 {
		log.Fatal().Msg("No capture stream could be started")
	}

	log.Info().
		Str("version", Version).
		Str("commit", Commit).
		Int("streams", mgr.Active()).
		Msg("Capturing; events stream to stdout")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down...")
	mgr.Stop()
}

// jsonSink writes each event as one JSON object per line, standing in
// for the host application's event channel.
type jsonSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newJSONSink(w io.Writer) *jsonSink {
	return &jsonSink{enc: json.NewEncoder(w)}
}

func (s *jsonSink) Emit(name string, evt capture.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(struct {
		Name string `json:"event"`
		capture.Event
	}{Name: name, Event: evt})
}
