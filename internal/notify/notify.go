// ABOUTME: Desktop notifications for switch failures, via beeep.
// ABOUTME: Success is reported by the tray icon and feedback cue; only problems toast.

package notify

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gen2brain/beeep"

	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/hotkey"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

// Notifier sends desktop notifications for command outcomes
type Notifier struct {
	enabled bool
}

// New creates a notifier; when disabled every call is a silent no-op
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// SwitchFailed reports a failed switch command to the user
func (n *Notifier) SwitchFailed(err error) {
	if !n.enabled {
		logging.Debug("Error notifications disabled, skipping: %v", err)
		return
	}

	title, message := describe(err)
	n.send(title, message)
}

// SetupFailed reports a configuration problem, like a hotkey conflict. Shown
// even when error notifications are off: without its hotkey the app is
// silently broken.
func (n *Notifier) SetupFailed(err error) {
	if errors.Is(err, hotkey.ErrConflict) {
		n.send("Hotkey unavailable", "The toggle hotkey is in use by another application. Use the tray menu to pick a different one.")
		return
	}
	n.send("Setup failed", err.Error())
}

// describe maps the error taxonomy to user-facing text
func describe(err error) (title, message string) {
	var unavail *devices.UnavailableError
	if errors.As(err, &unavail) {
		name := unavail.Slot.Name
		if name == "" {
			name = "preset " + unavail.Preset.String()
		}
		return "Device unavailable", fmt.Sprintf("%s is not connected. Plug it in and try again.", name)
	}

	var roleErr *endpoint.RoleError
	if errors.As(err, &roleErr) {
		if roleErr.AllFailed() {
			return "Switch failed", "Could not change the default audio device."
		}
		return "Switch partially failed", fmt.Sprintf("Some audio roles were not switched: %v.", roleErr.Failed)
	}

	var enumErr *endpoint.EnumerationError
	if errors.As(err, &enumErr) {
		return "Audio service unavailable", "Could not reach the Windows audio service. Is it running?"
	}

	return "Audio switch error", err.Error()
}

func (n *Notifier) send(title, message string) {
	// Windows keeps a persistent registry entry per AppName under the
	// notification settings; a fixed name prevents pollution.
	originalAppName := beeep.AppName
	if runtime.GOOS == "windows" {
		beeep.AppName = "Audio Switcher"
	}
	defer func() {
		beeep.AppName = originalAppName
	}()

	if err := beeep.Notify(title, message, ""); err != nil {
		logging.Error("Failed to send desktop notification: %v", err)
		return
	}
	logging.Debug("Desktop notification sent: title=%s", title)
}
