// ABOUTME: Tray icon state, embedded icon assets and context-menu item IDs.
// ABOUTME: Rendering goes through the dispatch loop's window; see tray_windows.go.

package tray

import (
	_ "embed"
	"fmt"

	"github.com/PinW/audio-output-switcher/internal/devices"
)

//go:embed assets/speakers.ico
var speakersIco []byte

//go:embed assets/headphones.ico
var headphonesIco []byte

// trayIconSize is the pixel size Windows renders notification-area icons at
const trayIconSize = 16

// Context-menu item IDs, returned directly by TrackPopupMenu
const (
	MenuSwitchA     = 1001
	MenuSwitchB     = 1002
	MenuReconfigure = 1003
	MenuAutostart   = 1004
	MenuExit        = 1005
)

// Tooltip renders the hover text for the current state using the cached
// slot names, so an unplugged device still shows its label.
func Tooltip(state devices.State, a, b devices.Slot) string {
	switch state {
	case devices.StateA:
		return fmt.Sprintf("Audio: %s", displayName(a.Name, "Speakers"))
	case devices.StateB:
		return fmt.Sprintf("Audio: %s", displayName(b.Name, "Headphones"))
	default:
		return "Audio: other device"
	}
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	// NOTIFYICONDATAW's szTip holds 127 UTF-16 code units; truncate with room
	// for the "Audio: " prefix
	const max = 96
	runes := []rune(name)
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return name
}
