// Package color decides whether output is colored and wraps display values so
// that color escape fragments vanish when color is off.
package color

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ErrUnknownChoice is returned when parsing an unrecognized color choice.
var ErrUnknownChoice = errors.New("unknown color choice")

// Mode governs whether wrapped values render.
type Mode uint8

const (
	// Disabled suppresses every wrapped value.
	Disabled Mode = iota
	// Enabled renders wrapped values as-is.
	Enabled
)

// String returns "disabled" or "enabled".
func (m Mode) String() string {
	if m == Enabled {
		return "enabled"
	}

	return "disabled"
}

// Displayable renders its value only when its mode is Enabled.
type Displayable[T any] struct {
	mode  Mode
	value T
}

// Wrap returns a Displayable that renders value when mode is Enabled and nothing otherwise.
func Wrap[T any](mode Mode, value T) Displayable[T] {
	return Displayable[T]{mode: mode, value: value}
}

// String renders the wrapped value, or "" when disabled.
func (d Displayable[T]) String() string {
	if d.mode == Disabled {
		return ""
	}

	return fmt.Sprint(d.value)
}

// Format delegates verb, width and flags to the wrapped value when enabled.
func (d Displayable[T]) Format(f fmt.State, verb rune) {
	if d.mode == Disabled {
		return
	}

	fmt.Fprintf(f, fmt.FormatString(f, verb), d.value)
}

// Reset is the escape sequence that clears all attributes.
const Reset = termenv.CSI + termenv.ResetSeq + "m"

// Start returns the escape sequence that switches the foreground to c.
func Start(c termenv.Color) string {
	return termenv.CSI + c.Sequence(false) + "m"
}

// Paint surrounds text with the start sequence for c and a reset.
// The escape fragments are dropped when m is Disabled; text always renders.
func (m Mode) Paint(text string, c termenv.Color) string {
	return fmt.Sprintf("%s%s%s", Wrap(m, Start(c)), text, Wrap(m, Reset))
}

// Renderer returns a lipgloss renderer for w that emits no styling when m is Disabled.
func (m Mode) Renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)

	if m == Disabled {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI256)
	}

	return r
}

// Choice is the user-facing color setting.
type Choice string

const (
	// Auto enables color when the output is a terminal and NO_COLOR is unset.
	Auto Choice = "auto"
	// Always forces color on.
	Always Choice = "always"
	// Never forces color off.
	Never Choice = "never"
)

// ParseChoice validates name as a Choice. Matching is case-insensitive.
func ParseChoice(name string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(name))); c {
	case Auto, Always, Never:
		return c, nil
	case "true", "on":
		return Always, nil
	case "false", "off":
		return Never, nil
	default:
		return Auto, fmt.Errorf("%w %q: must be one of auto, always, never", ErrUnknownChoice, name)
	}
}

// Resolve turns the choice into a Mode for output written to f.
func (c Choice) Resolve(f *os.File) Mode {
	switch c {
	case Always:
		return Enabled
	case Never:
		return Disabled
	}

	if _, set := os.LookupEnv("NO_COLOR"); set {
		return Disabled
	}

	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return Enabled
	}

	return Disabled
}
