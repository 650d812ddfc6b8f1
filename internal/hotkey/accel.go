package hotkey

import (
	"fmt"
	"strings"
	"unicode"
)

// Modifier is a bit set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if m&ModSuper != 0 {
		parts = append(parts, "Super")
	}
	return strings.Join(parts, "+")
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
}

// Accelerator is a parsed key combination such as "Ctrl+Shift+R".
type Accelerator struct {
	Mods Modifier
	// Key is the canonical key name: an upper-case letter or digit, or one
	// of the named keys ("Space", "F5", "Enter", …).
	Key string
}

func (a Accelerator) String() string {
	if a.Mods == 0 {
		return a.Key
	}
	return a.Mods.String() + "+" + a.Key
}

var namedKeys = map[string]string{
	"space":     "Space",
	"enter":     "Enter",
	"return":    "Enter",
	"tab":       "Tab",
	"esc":       "Escape",
	"escape":    "Escape",
	"backspace": "Backspace",
	"delete":    "Delete",
	"del":       "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pagedown":  "PageDown",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
}

// ParseAccelerator parses strings like "Alt+Space" or "ctrl+shift+r".
// Exactly one non-modifier key is required.
func ParseAccelerator(s string) (Accelerator, error) {
	var acc Accelerator
	if strings.TrimSpace(s) == "" {
		return acc, fmt.Errorf("empty hotkey")
	}

	for _, part := range strings.Split(s, "+") {
		token := strings.TrimSpace(part)
		if token == "" {
			return acc, fmt.Errorf("invalid hotkey %q: empty key", s)
		}

		lower := strings.ToLower(token)
		if mod, ok := modifierNames[lower]; ok {
			acc.Mods |= mod
			continue
		}

		if acc.Key != "" {
			return acc, fmt.Errorf("invalid hotkey %q: more than one key (%s, %s)", s, acc.Key, token)
		}
		key, ok := canonicalKey(lower)
		if !ok {
			return acc, fmt.Errorf("invalid hotkey %q: unknown key %q", s, token)
		}
		acc.Key = key
	}

	if acc.Key == "" {
		return acc, fmt.Errorf("invalid hotkey %q: no key", s)
	}
	return acc, nil
}

func canonicalKey(lower string) (string, bool) {
	if name, ok := namedKeys[lower]; ok {
		return name, true
	}

	r := []rune(lower)
	if len(r) == 1 && r[0] < unicode.MaxASCII && (unicode.IsLetter(r[0]) || unicode.IsDigit(r[0])) {
		return strings.ToUpper(lower), true
	}

	if strings.HasPrefix(lower, "f") {
		var n int
		if _, err := fmt.Sscanf(lower, "f%d", &n); err == nil && n >= 1 && n <= 20 && fmt.Sprintf("f%d", n) == lower {
			return fmt.Sprintf("F%d", n), true
		}
	}
	return "", false
}
