//go:build windows

package endpoint

import (
	"fmt"

	"github.com/moutend/go-wca/pkg/wca"

	"github.com/PinW/audio-output-switcher/internal/logging"
)

// Directory enumerates render endpoints through the MMDevice API. Every call
// creates a fresh enumerator so device plug/unplug between calls is always
// observed; nothing is cached. The caller's thread must have COM initialized.
type Directory struct{}

// NewDirectory returns a Directory. It holds no resources of its own.
func NewDirectory() *Directory {
	return &Directory{}
}

// ListActive returns all render endpoints currently in the active state
func (d *Directory) ListActive() ([]Device, error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return nil, &EnumerationError{Cause: fmt.Errorf("failed to create device enumerator: %w", err)}
	}
	defer mmde.Release()

	var mmdc *wca.IMMDeviceCollection
	if err := mmde.EnumAudioEndpoints(wca.ERender, wca.DEVICE_STATE_ACTIVE, &mmdc); err != nil {
		return nil, &EnumerationError{Cause: fmt.Errorf("failed to enumerate endpoints: %w", err)}
	}
	defer mmdc.Release()

	var count uint32
	if err := mmdc.GetCount(&count); err != nil {
		return nil, &EnumerationError{Cause: fmt.Errorf("failed to count endpoints: %w", err)}
	}

	devices := make([]Device, 0, count)
	for i := uint32(0); i < count; i++ {
		var mmd *wca.IMMDevice
		if err := mmdc.Item(i, &mmd); err != nil {
			return nil, &EnumerationError{Cause: fmt.Errorf("failed to get endpoint %d: %w", i, err)}
		}

		dev, err := describe(mmd)
		mmd.Release()
		if err != nil {
			logging.Warn("Skipping unreadable endpoint %d: %v", i, err)
			continue
		}
		devices = append(devices, dev)
	}

	logging.Debug("Enumerated %d active render endpoints", len(devices))
	return devices, nil
}

// Resolve finds a currently active endpoint by its stable ID.
// Returns ErrNotFound when the device is absent (e.g. unplugged).
func (d *Directory) Resolve(id string) (Device, error) {
	devices, err := d.ListActive()
	if err != nil {
		return Device{}, err
	}
	for _, dev := range devices {
		if dev.ID == id {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("endpoint %q: %w", id, ErrNotFound)
}

// Default returns the OS's current default render endpoint for a role
func (d *Directory) Default(role Role) (Device, error) {
	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return Device{}, &EnumerationError{Cause: fmt.Errorf("failed to create device enumerator: %w", err)}
	}
	defer mmde.Release()

	var mmd *wca.IMMDevice
	if err := mmde.GetDefaultAudioEndpoint(wca.ERender, wcaRole(role), &mmd); err != nil {
		return Device{}, &EnumerationError{Cause: fmt.Errorf("failed to get default endpoint for %s: %w", role, err)}
	}
	defer mmd.Release()

	return describe(mmd)
}

func describe(mmd *wca.IMMDevice) (Device, error) {
	var id string
	if err := mmd.GetId(&id); err != nil {
		return Device{}, fmt.Errorf("failed to read endpoint id: %w", err)
	}

	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return Device{}, fmt.Errorf("failed to open property store: %w", err)
	}
	defer ps.Release()

	var pv wca.PROPVARIANT
	if err := ps.GetValue(&wca.PKEY_Device_FriendlyName, &pv); err != nil {
		return Device{}, fmt.Errorf("failed to read friendly name: %w", err)
	}

	return Device{ID: id, Name: pv.String()}, nil
}

func wcaRole(role Role) uint32 {
	switch role {
	case RoleMultimedia:
		return wca.EMultimedia
	case RoleCommunications:
		return wca.ECommunications
	default:
		return wca.EConsole
	}
}
