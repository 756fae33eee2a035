package color_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dusage/internal/color"
)

type loud string

func (l loud) String() string { return string(l) + "!" }

func TestWrapDisabledRendersNothing(t *testing.T) {
	values := []any{
		"text",
		42,
		3.5,
		loud("hey"),
		color.Start(termenv.ANSIRed),
		[]int{1, 2, 3},
		nil,
	}

	for _, v := range values {
		w := color.Wrap(color.Disabled, v)

		assert.Empty(t, w.String())
		assert.Empty(t, fmt.Sprint(w))
		assert.Empty(t, fmt.Sprintf("%s", w))
		assert.Empty(t, fmt.Sprintf("%10v", w))
		assert.Equal(t, "[]", fmt.Sprintf("[%v]", w))
	}
}

func TestWrapEnabledDelegates(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		value    any
		expected string
	}{
		{name: "string", format: "%s", value: "abc", expected: "abc"},
		{name: "padded int", format: "%5d", value: 42, expected: "   42"},
		{name: "precision", format: "%.1f", value: 3.26, expected: "3.3"},
		{name: "stringer", format: "%v", value: loud("hey"), expected: "hey!"},
		{name: "left aligned", format: "%-4s|", value: "x", expected: "x   |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := color.Wrap(color.Enabled, tt.value)

			assert.Equal(t, tt.expected, fmt.Sprintf(tt.format, w))
		})
	}
}

func TestWrapIsIdempotent(t *testing.T) {
	for _, mode := range []color.Mode{color.Disabled, color.Enabled} {
		w := color.Wrap(mode, loud("again"))
		first := w.String()

		for range 3 {
			assert.Equal(t, first, w.String())
			assert.Equal(t, first, fmt.Sprint(w))
		}
	}
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "1.00 MiB", color.Disabled.Paint("1.00 MiB", termenv.ANSIGreen))
	assert.Equal(t, "\x1b[32m1.00 MiB\x1b[0m", color.Enabled.Paint("1.00 MiB", termenv.ANSIGreen))
}

func TestRendererFollowsMode(t *testing.T) {
	var buf bytes.Buffer

	plain := color.Disabled.Renderer(&buf).NewStyle().Bold(true).Render("Stats")
	assert.Equal(t, "Stats", plain)

	styled := color.Enabled.Renderer(&buf).NewStyle().Bold(true).Render("Stats")
	assert.Contains(t, styled, "Stats")
	assert.NotEqual(t, "Stats", styled)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input    string
		expected color.Choice
	}{
		{"auto", color.Auto},
		{"ALWAYS", color.Always},
		{"never", color.Never},
		{"on", color.Always},
		{"off", color.Never},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := color.ParseChoice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := color.ParseChoice("rainbow")
	require.ErrorIs(t, err, color.ErrUnknownChoice)
}

func TestChoiceResolve(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, color.Enabled, color.Always.Resolve(f))
	assert.Equal(t, color.Disabled, color.Never.Resolve(f))
	assert.Equal(t, color.Disabled, color.Auto.Resolve(f), "regular files are not terminals")
	assert.Equal(t, color.Disabled, color.Auto.Resolve(nil))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, color.Enabled, color.Always.Resolve(f), "explicit choice wins over NO_COLOR")
}
