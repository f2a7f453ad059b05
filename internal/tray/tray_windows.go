//go:build windows

package tray

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

// CallbackMessage is the WM_APP-range message the shell posts to the owner
// window for tray icon interactions
const CallbackMessage = 0x8000 + 1 // WM_APP + 1

const trayIconID = 1

const (
	nimAdd    = 0
	nimModify = 1
	nimDelete = 2

	nifMessage = 0x1
	nifIcon    = 0x2
	nifTip     = 0x4

	mfString    = 0x0
	mfSeparator = 0x800
	mfChecked   = 0x8

	tpmReturnCmd   = 0x100
	tpmNoNotify    = 0x80
	tpmRightButton = 0x2
)

var (
	user32  = windows.NewLazySystemDLL("user32.dll")
	shell32 = windows.NewLazySystemDLL("shell32.dll")

	procCreateIconFromResourceEx = user32.NewProc("CreateIconFromResourceEx")
	procCreatePopupMenu          = user32.NewProc("CreatePopupMenu")
	procAppendMenuW              = user32.NewProc("AppendMenuW")
	procTrackPopupMenu           = user32.NewProc("TrackPopupMenu")
	procDestroyMenu              = user32.NewProc("DestroyMenu")
	procGetCursorPos             = user32.NewProc("GetCursorPos")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procShellNotifyIconW         = shell32.NewProc("Shell_NotifyIconW")
)

// notifyIconData mirrors NOTIFYICONDATAW
type notifyIconData struct {
	cbSize           uint32
	hWnd             uintptr
	uID              uint32
	uFlags           uint32
	uCallbackMessage uint32
	hIcon            uintptr
	szTip            [128]uint16
	dwState          uint32
	dwStateMask      uint32
	szInfo           [256]uint16
	uVersion         uint32
	szInfoTitle      [64]uint16
	dwInfoFlags      uint32
	guidItem         [16]byte
	hBalloonIcon     uintptr
}

type point struct {
	x, y int32
}

// Tray renders the notification-area icon into the dispatch loop's hidden
// window. It never calls DeviceManager; state arrives from the loop.
type Tray struct {
	hwnd          uintptr
	speakerIcon   uintptr
	headphoneIcon uintptr
	added         bool
}

// New loads the embedded icons for the given owner window
func New(hwnd uintptr) (*Tray, error) {
	spk, err := loadIcon(speakersIco)
	if err != nil {
		return nil, fmt.Errorf("failed to load speakers icon: %w", err)
	}
	hp, err := loadIcon(headphonesIco)
	if err != nil {
		return nil, fmt.Errorf("failed to load headphones icon: %w", err)
	}
	return &Tray{hwnd: hwnd, speakerIcon: spk, headphoneIcon: hp}, nil
}

func loadIcon(ico []byte) (uintptr, error) {
	img, err := pickIconImage(ico, trayIconSize)
	if err != nil {
		return 0, err
	}
	// 0x00030000 is the required icon resource format version
	h, _, lastErr := procCreateIconFromResourceEx.Call(
		uintptr(unsafe.Pointer(&img[0])),
		uintptr(len(img)),
		1, // fIcon
		0x00030000,
		trayIconSize,
		trayIconSize,
		0, // LR_DEFAULTCOLOR
	)
	if h == 0 {
		return 0, fmt.Errorf("CreateIconFromResourceEx failed: %w", lastErr)
	}
	return h, nil
}

func (t *Tray) iconFor(state devices.State) uintptr {
	if state == devices.StateB {
		return t.headphoneIcon
	}
	return t.speakerIcon
}

func (t *Tray) data(state devices.State, a, b devices.Slot) *notifyIconData {
	nid := &notifyIconData{
		hWnd:             t.hwnd,
		uID:              trayIconID,
		uFlags:           nifIcon | nifMessage | nifTip,
		uCallbackMessage: CallbackMessage,
		hIcon:            t.iconFor(state),
	}
	nid.cbSize = uint32(unsafe.Sizeof(*nid))

	tip := windows.StringToUTF16(Tooltip(state, a, b))
	copy(nid.szTip[:len(nid.szTip)-1], tip)
	return nid
}

// Show adds the icon reflecting the given state
func (t *Tray) Show(state devices.State, a, b devices.Slot) error {
	r, _, lastErr := procShellNotifyIconW.Call(nimAdd, uintptr(unsafe.Pointer(t.data(state, a, b))))
	if r == 0 {
		return fmt.Errorf("Shell_NotifyIcon add failed: %w", lastErr)
	}
	t.added = true
	logging.Debug("Tray icon added (state=%s)", state)
	return nil
}

// Update changes the icon and tooltip after a state change
func (t *Tray) Update(state devices.State, a, b devices.Slot) error {
	if !t.added {
		return t.Show(state, a, b)
	}
	r, _, lastErr := procShellNotifyIconW.Call(nimModify, uintptr(unsafe.Pointer(t.data(state, a, b))))
	if r == 0 {
		return fmt.Errorf("Shell_NotifyIcon modify failed: %w", lastErr)
	}
	logging.Debug("Tray icon updated (state=%s)", state)
	return nil
}

// Remove deletes the icon during shutdown
func (t *Tray) Remove() {
	if !t.added {
		return
	}
	nid := &notifyIconData{hWnd: t.hwnd, uID: trayIconID}
	nid.cbSize = uint32(unsafe.Sizeof(*nid))
	_, _, _ = procShellNotifyIconW.Call(nimDelete, uintptr(unsafe.Pointer(nid)))
	t.added = false
}

// ShowMenu pops the context menu at the cursor and returns the selected menu
// ID, or 0 when dismissed. Blocks until the user picks or dismisses; that is
// fine on the dispatch thread because menu interaction is an attended
// operation like the wizard.
func (t *Tray) ShowMenu(a, b devices.Slot, autostart bool) (int, error) {
	menu, _, lastErr := procCreatePopupMenu.Call()
	if menu == 0 {
		return 0, fmt.Errorf("CreatePopupMenu failed: %w", lastErr)
	}
	defer procDestroyMenu.Call(menu)

	appendItem := func(id int, flags uintptr, label string) {
		text, _ := windows.UTF16PtrFromString(label)
		_, _, _ = procAppendMenuW.Call(menu, flags, uintptr(id), uintptr(unsafe.Pointer(text)))
	}

	appendItem(MenuSwitchA, mfString, "Switch to "+displayName(a.Name, "Speakers"))
	appendItem(MenuSwitchB, mfString, "Switch to "+displayName(b.Name, "Headphones"))
	appendItem(0, mfSeparator, "")
	appendItem(MenuReconfigure, mfString, "Reconfigure...")
	autostartFlags := uintptr(mfString)
	if autostart {
		autostartFlags |= mfChecked
	}
	appendItem(MenuAutostart, autostartFlags, "Start with Windows")
	appendItem(0, mfSeparator, "")
	appendItem(MenuExit, mfString, "Exit")

	var pt point
	_, _, _ = procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))

	// Menus over a hidden window need the window foregrounded, or the menu
	// will not dismiss when clicking elsewhere
	_, _, _ = procSetForegroundWindow.Call(t.hwnd)

	selected, _, _ := procTrackPopupMenu.Call(
		menu,
		tpmReturnCmd|tpmNoNotify|tpmRightButton,
		uintptr(pt.x),
		uintptr(pt.y),
		0,
		t.hwnd,
		0,
	)
	return int(selected), nil
}
