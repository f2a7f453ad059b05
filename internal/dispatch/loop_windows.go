//go:build windows

// ABOUTME: The single-threaded Win32 message loop: hidden command window,
// ABOUTME: hotkeys, tray callbacks and forwarded WM_COPYDATA commands.

package dispatch

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/PinW/audio-output-switcher/internal/command"
	"github.com/PinW/audio-output-switcher/internal/config"
	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/hotkey"
	"github.com/PinW/audio-output-switcher/internal/instance"
	"github.com/PinW/audio-output-switcher/internal/logging"
	"github.com/PinW/audio-output-switcher/internal/startup"
	"github.com/PinW/audio-output-switcher/internal/tray"
	"github.com/PinW/audio-output-switcher/internal/wizard"
)

const (
	wmDestroy     = 0x0002
	wmCopyData    = 0x004A
	wmHotkey      = 0x0312
	wmLButtonUp   = 0x0202
	wmRButtonUp   = 0x0205
	wmCommandPost = 0x8000 + 2 // WM_APP + 2, self-posted decoded commands

	hwndMessage = ^uintptr(2) // HWND_MESSAGE: message-only window parent
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
	procPostMessageW     = user32.NewProc("PostMessageW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

// wndClassEx mirrors WNDCLASSEXW
type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

// msg mirrors the Win32 MSG structure
type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	ptX     int32
	ptY     int32
}

type copyDataStruct struct {
	dwData uintptr
	cbData uint32
	lpData uintptr
}

// alertSink extends the executor's alerter with reconfiguration problems
type alertSink interface {
	alerter
	SetupFailed(err error)
}

// Loop owns the hidden command window and drives everything from one locked
// OS thread: hotkey presses, tray clicks, forwarded commands and the wizard
// all execute here, strictly one at a time.
type Loop struct {
	exec    *Executor
	mgr     *devices.Manager
	dir     *endpoint.Directory
	tray    *tray.Tray
	alert   alertSink
	cfg     config.Config
	cfgPath string

	hwnd      uintptr
	toggle    hotkey.Binding
	keys      *hotkeySet
	needSetup bool
	initial   []command.Command
}

// NewLoop prepares a loop. Run does the thread-bound setup.
func NewLoop(exec *Executor, mgr *devices.Manager, dir *endpoint.Directory, alert alertSink, cfg config.Config, cfgPath string) (*Loop, error) {
	binding, err := hotkey.Parse(cfg.Hotkey)
	if err != nil {
		return nil, fmt.Errorf("invalid configured hotkey %q: %w", cfg.Hotkey, err)
	}
	return &Loop{
		exec:    exec,
		mgr:     mgr,
		dir:     dir,
		alert:   alert,
		cfg:     cfg,
		cfgPath: cfgPath,
		toggle:  binding,
		keys:    newHotkeySet(hotkey.Register, hotkey.Unregister),
	}, nil
}

// RequireSetup makes Run start with the wizard before anything else. Used on
// first run (no config) and when the stored config fails validation.
func (l *Loop) RequireSetup() {
	l.needSetup = true
}

// Queue schedules a command to execute once the loop is up. Used when a CLI
// switching word claims the instance instead of forwarding.
func (l *Loop) Queue(cmd command.Command) {
	l.initial = append(l.initial, cmd)
}

// activeLoop routes wndproc callbacks back to the Loop. There is exactly one
// loop per process, enforced by the instance mutex.
var activeLoop *Loop

// Run creates the command window, registers the hotkeys, shows the tray icon
// and pumps messages until an exit command arrives. It must be called from
// main's goroutine and does not return until shutdown.
func (l *Loop) Run() error {
	// RegisterHotKey and GetMessage are thread-bound
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return fmt.Errorf("failed to initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	activeLoop = l
	defer func() { activeLoop = nil }()

	if err := l.createWindow(); err != nil {
		return err
	}
	defer procDestroyWindow.Call(l.hwnd)

	if l.needSetup {
		if err := l.runWizard(); err != nil {
			return fmt.Errorf("setup did not complete: %w", err)
		}
	}

	if err := l.keys.Add(hotkey.IDToggle, l.toggle); err != nil {
		if errors.Is(err, hotkey.ErrConflict) {
			// Another app owns the binding; the instance is useless without
			// its hotkey, so surface it and let the user pick a new one.
			// The wizard's replacement binding is registered on the way out
			// of reconfigure.
			l.alert.SetupFailed(err)
			if rerr := l.reconfigure(); rerr != nil {
				return fmt.Errorf("toggle hotkey unavailable: %w", err)
			}
		} else {
			return err
		}
	}

	if err := l.keys.Add(hotkey.IDOptions, hotkey.OptionsBinding); err != nil {
		// Non-fatal: reconfiguration stays reachable from the tray menu
		logging.Warn("Options hotkey unavailable: %v", err)
	}
	defer l.keys.Park()

	t, err := tray.New(l.hwnd)
	if err != nil {
		return err
	}
	l.tray = t
	l.exec.tray = t
	defer t.Remove()

	l.exec.RefreshTray()
	logging.Info("Dispatch loop ready (hotkey=%s)", l.cfg.Hotkey)

	for _, cmd := range l.initial {
		l.handle(cmd, "")
	}

	return l.pump()
}

func (l *Loop) createWindow() error {
	className, err := windows.UTF16PtrFromString(instance.WindowClassName)
	if err != nil {
		return fmt.Errorf("invalid window class name: %w", err)
	}

	hInstance, _, _ := procGetModuleHandleW.Call(0)

	wc := wndClassEx{
		lpfnWndProc:   windows.NewCallback(wndProc),
		hInstance:     hInstance,
		lpszClassName: className,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))

	if atom, _, lastErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return fmt.Errorf("RegisterClassEx failed: %w", lastErr)
	}

	hwnd, _, lastErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		0, // no title
		0, // no style: never visible
		0, 0, 0, 0,
		hwndMessage,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowEx failed: %w", lastErr)
	}
	l.hwnd = hwnd
	logging.Debug("Command window created (hwnd=0x%X)", hwnd)
	return nil
}

// pump runs GetMessage until WM_QUIT
func (l *Loop) pump() error {
	var m msg
	for {
		r, _, lastErr := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0: // WM_QUIT
			logging.Info("Dispatch loop exiting")
			return nil
		case -1:
			return fmt.Errorf("GetMessage failed: %w", lastErr)
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// wndProc handles every input source. It runs on the loop's locked thread,
// so no synchronization is needed anywhere downstream. All parameters are
// uintptr because NewCallback requires uintptr-sized arguments.
func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	l := activeLoop
	if l == nil {
		r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
		return r
	}

	switch message {
	case wmCopyData:
		return l.onCopyData(lParam)

	case wmHotkey:
		switch int(wParam) {
		case hotkey.IDToggle:
			l.handle(command.Toggle, "")
		case hotkey.IDOptions:
			l.handle(command.Reconfigure, "")
		}
		return 0

	case tray.CallbackMessage:
		l.onTrayCallback(lParam)
		return 0

	case wmCommandPost:
		l.handle(command.Command(wParam), "")
		return 0

	case wmDestroy:
		_, _, _ = procPostQuitMessage.Call(0)
		return 0
	}

	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}

// onCopyData validates and decodes a forwarded command. The sender blocks in
// SendMessageTimeout until this returns, so the command itself is posted back
// to the queue: the acknowledgment confirms receipt, not completion.
func (l *Loop) onCopyData(lParam uintptr) uintptr {
	cds := (*copyDataStruct)(unsafe.Pointer(lParam))
	if cds == nil || cds.dwData != instance.CopyDataID {
		return 0
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(cds.lpData)), cds.cbData)
	payload := make([]byte, len(data))
	copy(payload, data)

	cmd, id, err := command.Decode(payload)
	if err != nil {
		logging.Warn("Rejected forwarded payload: %v", err)
		return 0
	}

	logging.Info("Accepted forwarded command %s (id=%s)", cmd, id)
	_, _, _ = procPostMessageW.Call(l.hwnd, wmCommandPost, uintptr(cmd), 0)
	return 1
}

func (l *Loop) onTrayCallback(lParam uintptr) {
	switch uint32(lParam) {
	case wmLButtonUp:
		l.handle(command.Toggle, "")
	case wmRButtonUp:
		l.onTrayMenu()
	}
}

func (l *Loop) onTrayMenu() {
	selected, err := l.tray.ShowMenu(
		l.mgr.Slot(devices.PresetA),
		l.mgr.Slot(devices.PresetB),
		startup.Enabled(),
	)
	if err != nil {
		logging.Warn("Tray menu failed: %v", err)
		return
	}

	switch selected {
	case tray.MenuSwitchA:
		l.handle(command.SetA, "")
	case tray.MenuSwitchB:
		l.handle(command.SetB, "")
	case tray.MenuReconfigure:
		l.handle(command.Reconfigure, "")
	case tray.MenuAutostart:
		l.toggleAutostart()
	case tray.MenuExit:
		l.handle(command.Exit, "")
	}
}

// handle routes a command: switches go to the executor, loop-level commands
// are handled here
func (l *Loop) handle(cmd command.Command, id string) {
	switch cmd {
	case command.Reconfigure:
		if err := l.reconfigure(); err != nil && !errors.Is(err, wizard.ErrAborted) {
			logging.Error("Reconfiguration failed: %v", err)
			l.alert.SetupFailed(err)
		}
	case command.Exit:
		_, _, _ = procPostQuitMessage.Call(0)
	default:
		l.exec.Execute(cmd, id)
	}
}

// reconfigure re-runs the wizard with the registered hotkeys parked, then
// applies and persists the result. An aborted wizard leaves everything as it
// was; a successful one swaps in the new toggle binding before the set is
// restored.
func (l *Loop) reconfigure() error {
	l.keys.Park()
	defer l.keys.Restore(func(id int, err error) {
		if id == hotkey.IDToggle {
			logging.Error("Failed to re-register toggle hotkey: %v", err)
			l.alert.SetupFailed(err)
			return
		}
		logging.Warn("Failed to re-register hotkey id=%d: %v", id, err)
	})

	if err := l.runWizard(); err != nil {
		return err
	}
	l.keys.Rebind(hotkey.IDToggle, l.toggle)
	return nil
}

// runWizard runs the console wizard and applies + persists its result.
// Callers deal with hotkey parking; this only touches config and manager.
func (l *Loop) runWizard() error {
	devs, err := l.dir.ListActive()
	if err != nil {
		return fmt.Errorf("failed to list devices for setup: %w", err)
	}

	console, err := wizard.OpenConsole()
	if err != nil {
		return err
	}
	defer console.Close()

	cfg, err := wizard.Run(console.In(), console.Out(), devs, l.cfg)
	if err != nil {
		if errors.Is(err, wizard.ErrAborted) {
			logging.Info("Reconfiguration aborted, keeping previous settings")
		}
		return err
	}

	binding, err := hotkey.Parse(cfg.Hotkey)
	if err != nil {
		return fmt.Errorf("wizard produced invalid hotkey %q: %w", cfg.Hotkey, err)
	}

	if err := config.Save(l.cfgPath, &cfg); err != nil {
		return err
	}

	l.cfg = cfg
	l.toggle = binding
	l.mgr.Configure(
		devices.Slot{ID: cfg.DeviceA.ID, Name: cfg.DeviceA.Name},
		devices.Slot{ID: cfg.DeviceB.ID, Name: cfg.DeviceB.Name},
	)
	l.exec.RefreshTray()
	logging.Info("Reconfiguration applied (hotkey=%s)", cfg.Hotkey)
	return nil
}

func (l *Loop) toggleAutostart() {
	var err error
	if startup.Enabled() {
		err = startup.Disable()
	} else {
		err = startup.Enable()
	}
	if err != nil {
		logging.Error("Failed to toggle autostart: %v", err)
	}
}
