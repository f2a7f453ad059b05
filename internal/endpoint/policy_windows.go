//go:build windows

// ABOUTME: The single file allowed to touch the undocumented IPolicyConfig interface.
// ABOUTME: An OS break or a fallback strategy (helper binary) replaces only this file.

package endpoint

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"

	"github.com/PinW/audio-output-switcher/internal/logging"
)

// IPolicyConfig is not a documented OS contract. The CLSID/IID pair and the
// vtable layout below are stable in practice since Vista but carry no
// compatibility promise.
var (
	clsidPolicyConfigClient = ole.NewGUID("{870AF99C-171D-4F9E-AF0D-E63DF40C2BC9}")
	iidPolicyConfig         = ole.NewGUID("{F8679F50-850A-41CF-9C72-430F290290C8}")
)

type iPolicyConfig struct {
	ole.IUnknown
}

// Vtable layout of IPolicyConfig. SetDefaultEndpoint sits at slot 13:
// 3 IUnknown methods plus the 10 format/period/share/property methods.
type iPolicyConfigVtbl struct {
	ole.IUnknownVtbl
	GetMixFormat          uintptr
	GetDeviceFormat       uintptr
	ResetDeviceFormat     uintptr
	SetDeviceFormat       uintptr
	GetProcessingPeriod   uintptr
	SetProcessingPeriod   uintptr
	GetShareMode          uintptr
	SetShareMode          uintptr
	GetPropertyValue      uintptr
	SetPropertyValue      uintptr
	SetDefaultEndpoint    uintptr
	SetEndpointVisibility uintptr
}

func (pc *iPolicyConfig) vtbl() *iPolicyConfigVtbl {
	return (*iPolicyConfigVtbl)(unsafe.Pointer(pc.RawVTable))
}

func (pc *iPolicyConfig) setDefaultEndpoint(id *uint16, role Role) error {
	hr, _, _ := syscall.SyscallN(
		pc.vtbl().SetDefaultEndpoint,
		uintptr(unsafe.Pointer(pc)),
		uintptr(unsafe.Pointer(id)),
		uintptr(role),
	)
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

// Switch changes the OS default render endpoint through IPolicyConfig
type Switch struct{}

// NewSwitch returns a Switch. It holds no resources of its own.
func NewSwitch() *Switch {
	return &Switch{}
}

// SetDefault makes the endpoint with the given ID the default for every
// requested role. Roles are attempted in order and a per-role failure does
// not stop the iteration; the composite outcome comes back as a *RoleError
// (nil when every role succeeded). Callers wanting to leave a role alone
// pass a reduced role list.
func (s *Switch) SetDefault(id string, roles []Role) error {
	if len(roles) == 0 {
		return fmt.Errorf("no roles requested for endpoint %q", id)
	}

	wide, err := syscall.UTF16PtrFromString(id)
	if err != nil {
		return fmt.Errorf("invalid endpoint id %q: %w", id, err)
	}

	unknown, err := ole.CreateInstance(clsidPolicyConfigClient, iidPolicyConfig)
	if err != nil {
		return &RoleError{
			Failed:    append([]Role(nil), roles...),
			Attempted: len(roles),
			Cause:     fmt.Errorf("failed to create PolicyConfig client: %w", err),
		}
	}
	pc := (*iPolicyConfig)(unsafe.Pointer(unknown))
	defer pc.Release()

	return collectRoleFailures(roles, func(role Role) error {
		if err := pc.setDefaultEndpoint(wide, role); err != nil {
			logging.Warn("SetDefaultEndpoint failed for role %s: %v", role, err)
			return err
		}
		logging.Debug("Default endpoint set for role %s", role)
		return nil
	})
}
