// ABOUTME: JSON configuration store for the two device presets and the hotkey.
// ABOUTME: Lives at <user config dir>/AudioSwitcher/config.json; rewritten only by the wizard.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/PinW/audio-output-switcher/internal/hotkey"
)

// ErrNotExist means no config file is present yet (first run)
var ErrNotExist = errors.New("config file does not exist")

// DeviceSlot binds a preset to an endpoint ID, with the friendly name cached
// at selection time so the tray can label an unplugged device.
type DeviceSlot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Config is the persisted configuration
type Config struct {
	DeviceA       DeviceSlot `json:"deviceA"`
	DeviceB       DeviceSlot `json:"deviceB"`
	Hotkey        string     `json:"hotkey"`
	FeedbackSound bool       `json:"feedbackSound"`
	NotifyOnError bool       `json:"notifyOnError"`
	Debug         bool       `json:"debug"`

	// Legacy schema: bare endpoint ID strings under "speakers"/"headphones".
	// Accepted on load, upgraded to the slot form on the next save.
	LegacySpeakers   string `json:"speakers,omitempty"`
	LegacyHeadphones string `json:"headphones,omitempty"`
}

// DefaultConfig returns a config with sensible defaults and empty device slots
func DefaultConfig() *Config {
	return &Config{
		Hotkey:        "Ctrl+Alt+S",
		FeedbackSound: true,
		NotifyOnError: true,
	}
}

// Dir returns the directory holding the config file, log file and sound cues
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "AudioSwitcher")
}

// Path returns the config file path
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads configuration from a file. A missing file returns ErrNotExist
// so callers can run first-time setup; a present-but-unparseable file is a
// distinct error and must not be silently replaced.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

// ApplyDefaults fills in missing fields and upgrades the legacy schema
func (c *Config) ApplyDefaults() {
	if c.Hotkey == "" {
		c.Hotkey = "Ctrl+Alt+S"
	}

	// Legacy files carried bare IDs with no cached names
	if c.DeviceA.ID == "" && c.LegacySpeakers != "" {
		c.DeviceA = DeviceSlot{ID: c.LegacySpeakers, Name: "Speakers"}
	}
	if c.DeviceB.ID == "" && c.LegacyHeadphones != "" {
		c.DeviceB = DeviceSlot{ID: c.LegacyHeadphones, Name: "Headphones"}
	}
	c.LegacySpeakers = ""
	c.LegacyHeadphones = ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DeviceA.ID == "" {
		return fmt.Errorf("deviceA has no endpoint id")
	}
	if c.DeviceB.ID == "" {
		return fmt.Errorf("deviceB has no endpoint id")
	}
	if c.DeviceA.ID == c.DeviceB.ID {
		return fmt.Errorf("deviceA and deviceB must be different devices")
	}
	if _, err := hotkey.Parse(c.Hotkey); err != nil {
		return fmt.Errorf("invalid hotkey: %w", err)
	}
	return nil
}

// Save writes the config atomically: indented JSON to a temp file in the
// same directory, then rename over the target.
func Save(path string, c *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp config file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
