// ABOUTME: Single-instance ownership and command forwarding to a running instance.
// ABOUTME: This file holds the cross-process rendezvous names and forwarding errors.

package instance

import "errors"

// Cross-process rendezvous points. The mutex claims ownership; the window
// class locates the running instance's command receiver. Both are fixed for
// the lifetime of the wire format.
const (
	// MutexName is the named kernel mutex claimed by the owning process.
	// The kernel releases it on any exit, including crashes, so a dead
	// instance never blocks future launches.
	MutexName = "AudioSwitcher.SingleInstance"

	// WindowClassName identifies the hidden message window owned by the
	// dispatch loop; forwarded commands are delivered to it.
	WindowClassName = "AudioSwitcherMsg"

	// CopyDataID tags WM_COPYDATA payloads carrying a command envelope
	CopyDataID = 0x5357 // "SW"
)

// ErrAlreadyRunning means another process holds the instance mutex
var ErrAlreadyRunning = errors.New("another instance is already running")

// ErrNoInstance means the mutex is held but the command window was not found
// (the owner is still starting up or mid-shutdown)
var ErrNoInstance = errors.New("running instance's command window not found")

// ErrForwardTimeout means the running instance did not acknowledge the
// forwarded command in time. Fatal to the forwarding process only; it must
// exit rather than steal the mutex, or two dispatchers would race the
// hotkey registration.
var ErrForwardTimeout = errors.New("running instance did not respond in time")

// ErrRejected means the running instance received the command but refused it
// (e.g. malformed envelope)
var ErrRejected = errors.New("running instance rejected the command")
