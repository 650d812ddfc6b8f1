package hotkey

// Carbon modifier flags from Events.h.
const (
	carbonCmdKey     = 0x0100
	carbonShiftKey   = 0x0200
	carbonOptionKey  = 0x0800
	carbonControlKey = 0x1000
)

func carbonModifiers(m Modifier) uint32 {
	var mask uint32
	if m&ModSuper != 0 {
		mask |= carbonCmdKey
	}
	if m&ModShift != 0 {
		mask |= carbonShiftKey
	}
	if m&ModAlt != 0 {
		mask |= carbonOptionKey
	}
	if m&ModCtrl != 0 {
		mask |= carbonControlKey
	}
	return mask
}

// Virtual key codes for the ANSI layout (kVK_* in Events.h).
var carbonKeyCodes = map[string]uint32{
	"A": 0x00, "S": 0x01, "D": 0x02, "F": 0x03, "H": 0x04, "G": 0x05,
	"Z": 0x06, "X": 0x07, "C": 0x08, "V": 0x09, "B": 0x0B, "Q": 0x0C,
	"W": 0x0D, "E": 0x0E, "R": 0x0F, "Y": 0x10, "T": 0x11, "1": 0x12,
	"2": 0x13, "3": 0x14, "4": 0x15, "6": 0x16, "5": 0x17, "9": 0x19,
	"7": 0x1A, "8": 0x1C, "0": 0x1D, "O": 0x1F, "U": 0x20, "I": 0x22,
	"P": 0x23, "L": 0x25, "J": 0x26, "K": 0x28, "N": 0x2D, "M": 0x2E,

	"Enter":     0x24,
	"Tab":       0x30,
	"Space":     0x31,
	"Backspace": 0x33,
	"Escape":    0x35,
	"Delete":    0x75,
	"Home":      0x73,
	"End":       0x77,
	"PageUp":    0x74,
	"PageDown":  0x79,
	"Left":      0x7B,
	"Right":     0x7C,
	"Down":      0x7D,
	"Up":        0x7E,

	"F1": 0x7A, "F2": 0x78, "F3": 0x63, "F4": 0x76, "F5": 0x60,
	"F6": 0x61, "F7": 0x62, "F8": 0x64, "F9": 0x65, "F10": 0x6D,
	"F11": 0x67, "F12": 0x6F, "F13": 0x69, "F14": 0x6B, "F15": 0x71,
	"F16": 0x6A, "F17": 0x40, "F18": 0x4F, "F19": 0x50, "F20": 0x5A,
}

func carbonKeyCode(key string) (uint32, bool) {
	code, ok := carbonKeyCodes[key]
	return code, ok
}
