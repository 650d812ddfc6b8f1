package hotkey

import "strings"

// X11 modifier masks from X.h.
const (
	x11ShiftMask   = 1 << 0
	x11LockMask    = 1 << 1
	x11ControlMask = 1 << 2
	x11Mod1Mask    = 1 << 3 // Alt
	x11Mod2Mask    = 1 << 4 // NumLock
	x11Mod4Mask    = 1 << 6 // Super
)

// x11IgnoredMasks are the lock combinations a grab must also cover so the
// hotkey still fires with CapsLock or NumLock on.
var x11IgnoredMasks = []int{0, x11LockMask, x11Mod2Mask, x11LockMask | x11Mod2Mask}

func x11Modifiers(m Modifier) int {
	var mask int
	if m&ModShift != 0 {
		mask |= x11ShiftMask
	}
	if m&ModCtrl != 0 {
		mask |= x11ControlMask
	}
	if m&ModAlt != 0 {
		mask |= x11Mod1Mask
	}
	if m&ModSuper != 0 {
		mask |= x11Mod4Mask
	}
	return mask
}

var x11Names = map[string]string{
	"Space":     "space",
	"Enter":     "Return",
	"Escape":    "Escape",
	"Backspace": "BackSpace",
	"PageUp":    "Prior",
	"PageDown":  "Next",
}

// x11KeysymName maps a canonical key to the name XStringToKeysym expects.
func x11KeysymName(key string) string {
	if name, ok := x11Names[key]; ok {
		return name
	}
	if len(key) == 1 {
		return strings.ToLower(key)
	}
	return key
}
