// Package console renders findings for a terminal or as a structured report.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

// Color is a tag from the closed set of supported terminal colors.
type Color string

const (
	NoColor Color = ""
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Blue    Color = "blue"
	Bold    Color = "bold"
)

// Reset ends any colored span.
const Reset = "\033[0m"

var sequences = map[Color]string{
	Red:    "\033[31m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Blue:   "\033[34m",
	Bold:   "\033[1m",
}

// Colorize wraps msg in the escape sequence of c. NoColor returns msg as is.
// Any tag outside the closed set is a programming error and panics.
func Colorize(c Color, msg string) string {
	if c == NoColor {
		return msg
	}
	seq, ok := sequences[c]
	if !ok {
		panic(fmt.Sprintf("console: unknown color %q", string(c)))
	}
	return seq + msg + Reset
}

// LevelColor maps a finding level to its display color.
func LevelColor(l domain.Level) Color {
	switch l {
	case domain.LevelOK:
		return Green
	case domain.LevelWarn:
		return Yellow
	case domain.LevelFail:
		return Red
	case domain.LevelInfo:
		return Blue
	default:
		return NoColor
	}
}

// ColorMode decides whether escape sequences are written.
type ColorMode string

const (
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
	ColorAuto   ColorMode = "auto"
)

// ParseColorMode accepts always|never|auto; empty means always.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAlways, nil
	case ColorAlways, ColorNever, ColorAuto:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported color mode %q (expected always|never|auto)", s)
	}
}

// Enabled resolves the mode for w. Auto asks termenv whether w is a terminal
// that renders color.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorNever:
		return false
	case ColorAuto:
		return termenv.NewOutput(w).Profile != termenv.Ascii
	default:
		return true
	}
}
