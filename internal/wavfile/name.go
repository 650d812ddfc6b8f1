package wavfile

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// DefaultBaseName replaces names that sanitize to nothing.
	DefaultBaseName = "wizard"
	// DefaultFileName is the name used when the user never changes it.
	DefaultFileName = DefaultBaseName + Ext
	// Ext is the suffix every output file carries.
	Ext = ".wav"
)

var (
	// Includes the ASCII information separators and NEL, which many
	// platforms treat as whitespace but \s does not.
	whitespaceRun = regexp.MustCompile(`[\s\v\x1c-\x1f\x{85}\p{Z}]+`)
	invalidChars  = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// SanitizeName trims s, turns whitespace runs into a single underscore and
// drops anything outside [A-Za-z0-9._-]. It never returns an empty string.
func SanitizeName(s string) string {
	s = strings.TrimFunc(s, isNameSpace)
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = invalidChars.ReplaceAllString(s, "")
	if s == "" {
		return DefaultBaseName
	}
	return s
}

func isNameSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.In(r, unicode.Z) || (r >= 0x1c && r <= 0x1f)
}

// EnsureExt appends .wav unless s already ends with it in any case.
func EnsureExt(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(strings.ToLower(s), Ext) {
		s += Ext
	}
	return s
}

// FileName is the on-disk name for a requested name.
func FileName(requested string) string {
	return EnsureExt(SanitizeName(requested))
}
