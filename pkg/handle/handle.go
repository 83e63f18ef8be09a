// Package handle validates and formats the "@name" handle submitted with an
// uploaded image.
package handle

import (
	"errors"
	"strings"
)

const (
	// Marker is the single leading character every formatted handle carries.
	Marker = '@'

	MinLen = 5
	MaxLen = 32
	// MaxDisplayLen is MaxLen plus the marker.
	MaxDisplayLen = MaxLen + 1
)

var (
	ErrEmpty        = errors.New("handle is empty")
	ErrTooShort     = errors.New("handle must be at least 5 characters")
	ErrTooLong      = errors.New("handle must be at most 32 characters")
	ErrInvalidChars = errors.New("handle may only contain letters, digits and underscores")
)

// Check strips one leading marker and reports which constraint the rest
// violates, or nil.
func Check(h string) error {
	name := strings.TrimPrefix(h, string(Marker))
	if name == "" {
		return ErrEmpty
	}
	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return ErrInvalidChars
		}
	}
	switch {
	case len(name) < MinLen:
		return ErrTooShort
	case len(name) > MaxLen:
		return ErrTooLong
	}
	return nil
}

// Validate reports whether h, minus one leading marker, matches
// [A-Za-z0-9_]{5,32}.
func Validate(h string) bool {
	return Check(h) == nil
}

// Format keeps only [A-Za-z0-9_@], removes every marker, puts exactly one
// marker in front and caps the result at MaxDisplayLen. Empty input stays
// empty so the field can be cleared.
func Format(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(MaxDisplayLen)
	b.WriteByte(Marker)
	for i := 0; i < len(s) && b.Len() < MaxDisplayLen; i++ {
		if isNameChar(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}
