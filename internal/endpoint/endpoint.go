// ABOUTME: Types and errors for audio output endpoints and default-device roles.
// ABOUTME: All Win32/COM access lives in the _windows.go files of this package.

package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// Device is one render endpoint. ID is the stable MMDevice endpoint ID and
// the only valid equality key; Name is the friendly name, display only, and
// can change across driver updates.
type Device struct {
	ID   string
	Name string
}

// Role is one of the OS's distinct default-device purposes
type Role uint32

const (
	// RoleConsole covers games, system sounds and most applications
	RoleConsole Role = 0
	// RoleMultimedia covers music and video playback
	RoleMultimedia Role = 1
	// RoleCommunications covers voice chat and telephony
	RoleCommunications Role = 2
)

// DefaultRoles is the versioned list of roles a default-device switch must
// cover. A future OS role only needs to be added here.
var DefaultRoles = []Role{RoleConsole, RoleMultimedia, RoleCommunications}

func (r Role) String() string {
	switch r {
	case RoleConsole:
		return "console"
	case RoleMultimedia:
		return "multimedia"
	case RoleCommunications:
		return "communications"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// ErrNotFound means the requested endpoint is not among the currently active
// devices. Expected when a USB device is unplugged; callers treat it as
// "unavailable right now", not as a crash condition.
var ErrNotFound = errors.New("audio endpoint not found")

// EnumerationError means the audio service itself could not be reached.
// Not retried automatically; the next user-initiated command retries.
type EnumerationError struct {
	Cause error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("audio endpoint enumeration failed: %v", e.Cause)
}

func (e *EnumerationError) Unwrap() error { return e.Cause }

// RoleError reports which roles a default-device switch failed for. A switch
// iterates every requested role and collects failures instead of aborting,
// so Failed may be a subset (partial failure) or all of them.
type RoleError struct {
	Failed    []Role
	Attempted int
	Cause     error
}

func (e *RoleError) Error() string {
	names := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		names[i] = r.String()
	}
	if e.AllFailed() {
		return fmt.Sprintf("default device switch failed for all roles: %v", e.Cause)
	}
	return fmt.Sprintf("default device switch failed for roles [%s]: %v", strings.Join(names, ", "), e.Cause)
}

func (e *RoleError) Unwrap() error { return e.Cause }

// AllFailed reports whether no role was switched at all
func (e *RoleError) AllFailed() bool {
	return len(e.Failed) == e.Attempted
}

// collectRoleFailures applies set to every role in order. A failing role does
// not stop the iteration; the remaining roles are still attempted and the
// failures come back folded into a single *RoleError carrying the first
// cause. Returns nil when every role succeeded.
func collectRoleFailures(roles []Role, set func(Role) error) error {
	var failed []Role
	var cause error
	for _, role := range roles {
		if err := set(role); err != nil {
			failed = append(failed, role)
			if cause == nil {
				cause = err
			}
		}
	}

	if len(failed) > 0 {
		return &RoleError{Failed: failed, Attempted: len(roles), Cause: cause}
	}
	return nil
}
