// ABOUTME: DeviceManager: computes which preset is active and performs switches.
// ABOUTME: Pure policy over the endpoint directory/switch, so it tests without hardware.

package devices

import (
	"errors"
	"fmt"

	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

// Preset is one of the two user-configured device slots
type Preset int

const (
	// PresetA is the "speakers" slot
	PresetA Preset = iota
	// PresetB is the "headphones" slot
	PresetB
)

func (p Preset) String() string {
	if p == PresetB {
		return "B"
	}
	return "A"
}

// Other returns the opposite preset
func (p Preset) Other() Preset {
	if p == PresetA {
		return PresetB
	}
	return PresetA
}

// State is which preset the OS's current default endpoint matches
type State int

const (
	// StateA means preset A's device is the current default
	StateA State = iota
	// StateB means preset B's device is the current default
	StateB
	// StateUnknown means a third device is the current default.
	// A normal outcome, not an error.
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateA:
		return "A"
	case StateB:
		return "B"
	default:
		return "unknown"
	}
}

// Slot is a configured preset: the endpoint ID plus the friendly name cached
// at configuration time, for display while the device is absent.
type Slot struct {
	ID   string
	Name string
}

// UnavailableError means a preset's device is not currently plugged in.
// The everyday failure when a USB headset is disconnected; the OS default
// is left untouched.
type UnavailableError struct {
	Preset Preset
	Slot   Slot
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("device for preset %s (%s) is unavailable", e.Preset, e.Slot.Name)
}

// directory is the endpoint-lookup surface the manager consumes
type directory interface {
	ListActive() ([]endpoint.Device, error)
	Resolve(id string) (endpoint.Device, error)
	Default(role endpoint.Role) (endpoint.Device, error)
}

// switcher is the default-endpoint-change surface the manager consumes
type switcher interface {
	SetDefault(id string, roles []endpoint.Role) error
}

// Manager composes the directory and switch into the get-current / toggle /
// switch-to contract. Not safe for concurrent use; the dispatch loop is its
// sole caller.
type Manager struct {
	dir directory
	sw  switcher
	a   Slot
	b   Slot
}

// New creates a Manager over the two configured slots
func New(dir directory, sw switcher, a, b Slot) *Manager {
	return &Manager{dir: dir, sw: sw, a: a, b: b}
}

// Configure replaces both slots after reconfiguration. Callers must hold the
// same single-thread discipline as the rest of the manager.
func (m *Manager) Configure(a, b Slot) {
	m.a = a
	m.b = b
	logging.Info("Presets updated: A=%s B=%s", a.Name, b.Name)
}

// Slot returns the configured slot for a preset
func (m *Manager) Slot(p Preset) Slot {
	if p == PresetB {
		return m.b
	}
	return m.a
}

// Current compares the console-role default endpoint against both presets.
// A preset whose device is absent cannot match, but its absence alone never
// fails the computation.
func (m *Manager) Current() (State, error) {
	def, err := m.dir.Default(endpoint.RoleConsole)
	if err != nil {
		return StateUnknown, fmt.Errorf("failed to read current default: %w", err)
	}

	switch def.ID {
	case m.a.ID:
		return StateA, nil
	case m.b.ID:
		return StateB, nil
	default:
		return StateUnknown, nil
	}
}

// Switch makes the preset's device the default for every role in
// endpoint.DefaultRoles. Switching to the already-default device succeeds;
// scripts may invoke the same preset repeatedly.
func (m *Manager) Switch(p Preset) (endpoint.Device, error) {
	slot := m.Slot(p)

	dev, err := m.dir.Resolve(slot.ID)
	if err != nil {
		if errors.Is(err, endpoint.ErrNotFound) {
			return endpoint.Device{}, &UnavailableError{Preset: p, Slot: slot}
		}
		return endpoint.Device{}, fmt.Errorf("failed to resolve preset %s: %w", p, err)
	}

	if err := m.sw.SetDefault(dev.ID, endpoint.DefaultRoles); err != nil {
		return endpoint.Device{}, err
	}

	logging.Info("Switched default output to preset %s (%s)", p, dev.Name)
	return dev, nil
}

// Toggle switches to the preset that is not currently active and reports
// which preset it chose. When a third device is active the tie breaks toward
// preset A, so the hotkey always has an observable effect.
func (m *Manager) Toggle() (Preset, endpoint.Device, error) {
	state, err := m.Current()
	if err != nil {
		return PresetA, endpoint.Device{}, err
	}

	target := PresetA
	if state == StateA {
		target = PresetB
	}
	dev, err := m.Switch(target)
	return target, dev, err
}
