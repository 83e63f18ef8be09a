// Package qrlink builds request URLs for the external QR image generator.
// No image is rendered locally.
package qrlink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	DefaultEndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultSize     = 300
	// MaxTextLen is counted in runes.
	MaxTextLen = 500
)

var (
	ErrEmptyText   = errors.New("qr text is empty")
	ErrTextTooLong = errors.New("qr text exceeds 500 characters")
)

type Builder struct {
	Endpoint string
	Size     int
}

func NewBuilder(endpoint string, size int) *Builder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &Builder{Endpoint: endpoint, Size: size}
}

// Build returns <endpoint>?size=NxN&data=<text>. Empty or whitespace-only
// text is refused and no URL is produced.
func (b *Builder) Build(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return "", ErrTextTooLong
	}

	sep := "?"
	if strings.Contains(b.Endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssize=%dx%d&data=%s", b.Endpoint, sep, b.Size, b.Size, EscapeComponent(text)), nil
}

// componentUnescaper undoes QueryEscape where encodeURIComponent leaves
// characters as they are.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent percent-encodes s like encodeURIComponent: spaces are %20
// and A-Z a-z 0-9 - _ . ! ~ * ' ( ) stay literal.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
