package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color selects whether output is styled
type Color int

const (
	// ColorAuto styles output only on a capable terminal
	ColorAuto Color = iota
	// ColorAlways styles output even when it is piped
	ColorAlways
	// ColorNever prints plain text
	ColorNever
)

// String returns the flag value for c
func (c Color) String() string {
	switch c {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseColor parses a --color flag value
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return ColorAuto, nil
	case "always", "yes", "force":
		return ColorAlways, nil
	case "never", "no", "none":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("unknown color mode: %s (want auto, always or never)", s)
	}
}

// Enabled reports whether output written to f should carry colors
func Enabled(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}

// Resolve turns c into a yes/no decision for output written to f
func (c Color) Resolve(f *os.File) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return Enabled(f)
	}
}
