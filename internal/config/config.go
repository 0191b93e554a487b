package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	Devices  DeviceConfig  `json:"devices"`
	Capture  CaptureConfig `json:"capture"`
	LogLevel string        `json:"log_level"`
}

// DeviceConfig holds the persisted device selection per role. Empty
// names mean the role resolves to its system default.
type DeviceConfig struct {
	Local  string `json:"local"`
	Remote string `json:"remote"`
}

type CaptureConfig struct {
	ChunkSeconds  int `json:"chunk_seconds"`
	AmplitudeGate int `json:"amplitude_gate"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		Devices: DeviceConfig{
			Local:  "",
			Remote: "",
		},
		Capture: CaptureConfig{
			ChunkSeconds:  6,
			AmplitudeGate: 800,
		},
		LogLevel: "info",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "meetcap", "config.json")
}
