//go:build windows

package hotkey

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/PinW/audio-output-switcher/internal/logging"
)

const errorHotkeyAlreadyRegistered syscall.Errno = 1409 // ERROR_HOTKEY_ALREADY_REGISTERED

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

// Register binds a global hotkey to the calling thread. The thread that
// registers must be the one running the message loop, so callers are
// expected to have LockOSThread in effect.
func Register(id int, b Binding) error {
	r, _, lastErr := procRegisterHotKey.Call(0, uintptr(id), uintptr(b.Modifiers), uintptr(b.VK))
	if r == 0 {
		if errno, ok := lastErr.(syscall.Errno); ok && errno == errorHotkeyAlreadyRegistered {
			return fmt.Errorf("RegisterHotKey id=%d: %w", id, ErrConflict)
		}
		return fmt.Errorf("RegisterHotKey id=%d failed: %w", id, lastErr)
	}
	logging.Debug("Registered hotkey id=%d mod=0x%X vk=0x%X", id, b.Modifiers, b.VK)
	return nil
}

// Unregister releases a binding. Safe to call for an ID that was never registered.
func Unregister(id int) {
	_, _, _ = procUnregisterHotKey.Call(0, uintptr(id))
	logging.Debug("Unregistered hotkey id=%d", id)
}
