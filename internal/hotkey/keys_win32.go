package hotkey

import "fmt"

// Win32 RegisterHotKey modifier flags.
const (
	win32ModAlt   = 0x0001
	win32ModCtrl  = 0x0002
	win32ModShift = 0x0004
	win32ModWin   = 0x0008
)

func win32Modifiers(m Modifier) []uint8 {
	var mods []uint8
	if m&ModCtrl != 0 {
		mods = append(mods, win32ModCtrl)
	}
	if m&ModShift != 0 {
		mods = append(mods, win32ModShift)
	}
	if m&ModAlt != 0 {
		mods = append(mods, win32ModAlt)
	}
	if m&ModSuper != 0 {
		mods = append(mods, win32ModWin)
	}
	return mods
}

var win32Named = map[string]uint16{
	"Space":     0x20,
	"Enter":     0x0D,
	"Tab":       0x09,
	"Escape":    0x1B,
	"Backspace": 0x08,
	"Delete":    0x2E,
	"Insert":    0x2D,
	"Home":      0x24,
	"End":       0x23,
	"PageUp":    0x21,
	"PageDown":  0x22,
	"Left":      0x25,
	"Up":        0x26,
	"Right":     0x27,
	"Down":      0x28,
}

// win32VirtualKey maps a canonical key to its VK_* code. Letters and digits
// use their ASCII code; F1 is 0x70.
func win32VirtualKey(key string) (uint16, bool) {
	if vk, ok := win32Named[key]; ok {
		return vk, true
	}
	if len(key) == 1 {
		c := key[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return uint16(c), true
		}
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(key, "F%d", &n); err == nil && n >= 1 && n <= 24 {
		return uint16(0x70 + n - 1), true
	}
	return 0, false
}
