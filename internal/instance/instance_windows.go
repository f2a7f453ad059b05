//go:build windows

package instance

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PinW/audio-output-switcher/internal/command"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

const (
	wmCopyData      = 0x004A
	smtoBlock       = 0x0001
	smtoAbortIfHung = 0x0002

	errorTimeout syscall.Errno = 1460 // ERROR_TIMEOUT
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW        = user32.NewProc("FindWindowW")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
)

// copyDataStruct mirrors the Win32 COPYDATASTRUCT layout
type copyDataStruct struct {
	dwData uintptr
	cbData uint32
	lpData uintptr
}

// Lock is the process-wide exclusive claim. Held for the whole process
// lifetime; Release exists for the orderly-shutdown path, but the kernel
// cleans up on any exit regardless.
type Lock struct {
	handle windows.Handle
}

// Acquire claims single-instance ownership. ErrAlreadyRunning means some
// other process owns the mutex and the caller should forward instead.
func Acquire() (*Lock, error) {
	name, err := windows.UTF16PtrFromString(MutexName)
	if err != nil {
		return nil, fmt.Errorf("invalid mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, name)
	if err == windows.ERROR_ALREADY_EXISTS {
		if handle != 0 {
			_ = windows.CloseHandle(handle)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create instance mutex: %w", err)
	}

	logging.Debug("Instance mutex claimed")
	return &Lock{handle: handle}, nil
}

// Release gives up the claim during orderly shutdown
func (l *Lock) Release() {
	if l.handle != 0 {
		_ = windows.CloseHandle(l.handle)
		l.handle = 0
	}
}

// Forward delivers a command to the running instance's message window and
// waits up to timeout for the acknowledgment. There is no retry and no
// fallback to claiming ownership; on timeout the caller exits with a
// distinct code.
func Forward(cmd command.Command, timeout time.Duration) error {
	class, err := windows.UTF16PtrFromString(WindowClassName)
	if err != nil {
		return fmt.Errorf("invalid window class name: %w", err)
	}

	hwnd, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(class)), 0)
	if hwnd == 0 {
		return ErrNoInstance
	}

	data, id, err := command.Encode(cmd)
	if err != nil {
		return err
	}
	logging.Info("Forwarding %s to running instance (id=%s)", cmd, id)

	cds := copyDataStruct{
		dwData: CopyDataID,
		cbData: uint32(len(data)),
		lpData: uintptr(unsafe.Pointer(&data[0])),
	}

	var ack uintptr
	r, _, lastErr := procSendMessageTimeout.Call(
		hwnd,
		wmCopyData,
		0,
		uintptr(unsafe.Pointer(&cds)),
		smtoBlock|smtoAbortIfHung,
		uintptr(timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&ack)),
	)
	if r == 0 {
		if errno, ok := lastErr.(syscall.Errno); ok && errno == errorTimeout {
			return ErrForwardTimeout
		}
		return fmt.Errorf("failed to deliver command: %w", lastErr)
	}
	if ack == 0 {
		return ErrRejected
	}

	logging.Info("Command %s acknowledged (id=%s)", cmd, id)
	return nil
}
