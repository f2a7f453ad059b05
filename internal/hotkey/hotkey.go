// ABOUTME: Hotkey string parsing ("Ctrl+Alt+S") into Win32 RegisterHotKey arguments.
// ABOUTME: Parsing is pure and platform-neutral; registration lives in hotkey_windows.go.

package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict means another application already owns the binding
var ErrConflict = errors.New("hotkey already registered by another application")

// Win32 hotkey modifier flags
const (
	ModAlt      = 0x0001
	ModControl  = 0x0002
	ModShift    = 0x0004
	ModWin      = 0x0008
	ModNoRepeat = 0x4000
)

// Hotkey registration IDs. One toggle binding from config plus a fixed
// options binding; the dispatch loop tells them apart by ID.
const (
	IDToggle  = 1
	IDOptions = 2
)

// Binding is a parsed hotkey ready for registration
type Binding struct {
	Modifiers uint32
	VK        uint32
}

// OptionsBinding is the fixed reconfigure hotkey (Ctrl+O)
var OptionsBinding = Binding{Modifiers: ModControl | ModNoRepeat, VK: 'O'}

// Parse converts a spec like "Ctrl+Alt+S" into a Binding. Modifier and key
// names are case-insensitive; surrounding whitespace is ignored. ModNoRepeat
// is always set so holding the key fires once.
func Parse(spec string) (Binding, error) {
	b := Binding{Modifiers: ModNoRepeat}

	for _, part := range strings.Split(spec, "+") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "CTRL", "CONTROL":
			b.Modifiers |= ModControl
		case "ALT":
			b.Modifiers |= ModAlt
		case "SHIFT":
			b.Modifiers |= ModShift
		case "WIN", "WINDOWS", "SUPER":
			b.Modifiers |= ModWin
		default:
			key := strings.ToUpper(strings.TrimSpace(part))
			if b.VK != 0 {
				return Binding{}, fmt.Errorf("multiple keys in hotkey %q: already had one, got %q", spec, part)
			}
			vk, err := keyNameToVK(key)
			if err != nil {
				return Binding{}, fmt.Errorf("invalid hotkey %q: %w", spec, err)
			}
			b.VK = vk
		}
	}

	if b.VK == 0 {
		return Binding{}, fmt.Errorf("no key specified in hotkey %q", spec)
	}
	return b, nil
}

// OEM virtual-key codes for the punctuation row
const (
	vkOEM1      = 0xBA // ;
	vkOEMPlus   = 0xBB // =
	vkOEMComma  = 0xBC // ,
	vkOEMMinus  = 0xBD // -
	vkOEMPeriod = 0xBE // .
	vkOEM2      = 0xBF // /
	vkOEM3      = 0xC0 // `
	vkOEM4      = 0xDB // [
	vkOEM5      = 0xDC // \
	vkOEM6      = 0xDD // ]
	vkOEM7      = 0xDE // '
	vkSpace     = 0x20
	vkF1        = 0x70
)

func keyNameToVK(name string) (uint32, error) {
	// A-Z and 0-9 map straight to their ASCII codes
	if len(name) == 1 {
		ch := name[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return uint32(ch), nil
		}
	}

	// F1-F12
	if strings.HasPrefix(name, "F") && len(name) > 1 {
		var n int
		if _, err := fmt.Sscanf(name, "F%d", &n); err == nil && n >= 1 && n <= 12 {
			return uint32(vkF1 + n - 1), nil
		}
	}

	switch name {
	case "SPACE":
		return vkSpace, nil
	case ";":
		return vkOEM1, nil
	case "=":
		return vkOEMPlus, nil
	case ",":
		return vkOEMComma, nil
	case "-":
		return vkOEMMinus, nil
	case ".":
		return vkOEMPeriod, nil
	case "/":
		return vkOEM2, nil
	case "`":
		return vkOEM3, nil
	case "[":
		return vkOEM4, nil
	case "\\":
		return vkOEM5, nil
	case "]":
		return vkOEM6, nil
	case "'":
		return vkOEM7, nil
	}

	return 0, fmt.Errorf("unknown key: %q", name)
}
