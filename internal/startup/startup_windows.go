//go:build windows

// ABOUTME: Login autostart via the HKCU Run registry key.

package startup

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"

	"github.com/PinW/audio-output-switcher/internal/logging"
)

const (
	runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`
	valueName  = "AudioSwitcher"
)

// Enabled reports whether the autostart entry is present
func Enabled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(valueName)
	return err == nil
}

// Enable points the Run entry at the current executable
func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(valueName, `"`+exe+`"`); err != nil {
		return fmt.Errorf("failed to write Run entry: %w", err)
	}
	logging.Info("Autostart enabled (%s)", exe)
	return nil
}

// Disable removes the Run entry. Removing an absent entry is not an error.
func Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open Run key: %w", err)
	}
	defer key.Close()

	if err := key.DeleteValue(valueName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("failed to delete Run entry: %w", err)
	}
	logging.Info("Autostart disabled")
	return nil
}
