package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
)

func TestDescribeUnavailable(t *testing.T) {
	err := &devices.UnavailableError{
		Preset: devices.PresetB,
		Slot:   devices.Slot{ID: "H", Name: "USB Headset"},
	}

	title, message := describe(err)
	assert.Equal(t, "Device unavailable", title)
	assert.Contains(t, message, "USB Headset")
}

func TestDescribeUnavailableWithoutCachedName(t *testing.T) {
	err := &devices.UnavailableError{Preset: devices.PresetA}

	_, message := describe(err)
	assert.Contains(t, message, "preset A")
}

func TestDescribePartialFailure(t *testing.T) {
	err := &endpoint.RoleError{
		Failed:    []endpoint.Role{endpoint.RoleCommunications},
		Attempted: 3,
		Cause:     errors.New("E_FAIL"),
	}

	title, message := describe(err)
	assert.Equal(t, "Switch partially failed", title)
	assert.Contains(t, message, "communications")
}

func TestDescribeAllFailed(t *testing.T) {
	err := &endpoint.RoleError{
		Failed:    []endpoint.Role{endpoint.RoleConsole, endpoint.RoleMultimedia, endpoint.RoleCommunications},
		Attempted: 3,
		Cause:     errors.New("E_FAIL"),
	}

	title, _ := describe(err)
	assert.Equal(t, "Switch failed", title)
}

func TestDescribeEnumerationFailure(t *testing.T) {
	err := &endpoint.EnumerationError{Cause: errors.New("audiosrv stopped")}

	title, message := describe(err)
	assert.Equal(t, "Audio service unavailable", title)
	assert.Contains(t, message, "audio service")
}

func TestDescribeWrappedErrors(t *testing.T) {
	// Taxonomy detection must survive fmt.Errorf wrapping
	inner := &devices.UnavailableError{Preset: devices.PresetA, Slot: devices.Slot{Name: "Speakers"}}
	wrapped := errors.Join(errors.New("context"), inner)

	title, _ := describe(wrapped)
	assert.Equal(t, "Device unavailable", title)
}

func TestDescribeUnknownError(t *testing.T) {
	title, message := describe(errors.New("something odd"))
	assert.Equal(t, "Audio switch error", title)
	assert.Contains(t, message, "something odd")
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	// Must not attempt a real desktop notification
	n := New(false)
	n.SwitchFailed(errors.New("boom"))
}
