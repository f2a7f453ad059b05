// ABOUTME: Executes switching commands and routes the outcome to the tray,
// ABOUTME: notifier and feedback cue. Pure logic; the Win32 loop feeds it.

package dispatch

import (
	"github.com/PinW/audio-output-switcher/internal/command"
	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

// switchboard is the device-manager surface the executor consumes
type switchboard interface {
	Switch(p devices.Preset) (endpoint.Device, error)
	Toggle() (devices.Preset, endpoint.Device, error)
	Current() (devices.State, error)
	Slot(p devices.Preset) devices.Slot
}

// presenter reflects the active state in the UI (the tray icon)
type presenter interface {
	Update(state devices.State, a, b devices.Slot) error
}

// alerter reports failed switches to the user
type alerter interface {
	SwitchFailed(err error)
}

// CuePlayer plays the audible confirmation after a successful switch.
// Exported so main can wire the fire-and-forget adapter around the player.
type CuePlayer interface {
	PlayCue(p devices.Preset)
}

// Executor runs one command at a time. It is driven exclusively from the
// dispatch thread, so commands from the hotkey, tray and forwarded CLI
// invocations are serialized by construction.
type Executor struct {
	board switchboard
	tray  presenter
	alert alerter
	cue   CuePlayer
}

// NewExecutor wires the executor. cue may be nil when the confirmation sound
// is disabled.
func NewExecutor(board switchboard, tray presenter, alert alerter, cue CuePlayer) *Executor {
	return &Executor{board: board, tray: tray, alert: alert, cue: cue}
}

// Execute runs a switching command. Reconfigure and Exit are loop-level
// commands and are rejected here.
func (e *Executor) Execute(cmd command.Command, id string) {
	if id != "" {
		logging.Info("Executing forwarded command %s (id=%s)", cmd, id)
	} else {
		logging.Debug("Executing command %s", cmd)
	}

	switch cmd {
	case command.Toggle:
		target, _, err := e.board.Toggle()
		e.finish(target, err)
	case command.SetA:
		_, err := e.board.Switch(devices.PresetA)
		e.finish(devices.PresetA, err)
	case command.SetB:
		_, err := e.board.Switch(devices.PresetB)
		e.finish(devices.PresetB, err)
	default:
		logging.Warn("Command %s is not executable by the switch executor", cmd)
	}
}

// finish applies the common post-switch handling: the tray always re-reads
// reality (a partial role failure still changes the console default), the cue
// plays only on full success, and failures toast.
func (e *Executor) finish(target devices.Preset, err error) {
	e.RefreshTray()

	if err != nil {
		logging.Error("Switch to preset %s failed: %v", target, err)
		e.alert.SwitchFailed(err)
		return
	}

	if e.cue != nil {
		e.cue.PlayCue(target)
	}
}

// RefreshTray re-reads the current default and updates the icon. Used at
// startup, after every command, and after reconfiguration.
func (e *Executor) RefreshTray() {
	if e.tray == nil {
		return
	}

	state, err := e.board.Current()
	if err != nil {
		logging.Warn("Failed to read current default for tray refresh: %v", err)
		state = devices.StateUnknown
	}

	if err := e.tray.Update(state, e.board.Slot(devices.PresetA), e.board.Slot(devices.PresetB)); err != nil {
		logging.Warn("Failed to update tray icon: %v", err)
	}
}
