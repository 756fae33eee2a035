package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/idelchi/dusage/internal/bytefmt"
	"github.com/idelchi/dusage/internal/color"
	"github.com/idelchi/dusage/internal/walk"
)

const (
	defaultOutput = "table"
	defaultColor  = color.Auto
)

//nolint:gochecknoglobals // Config constant
var (
	allowedOutputs = []string{"table", "list", "json", "yaml"}
	settingKeys    = []string{"threads", "format", "color", "sort", "output", "parallel", "progress", "debug"}
)

// Settings holds the resolved configuration of one invocation.
type Settings struct {
	// Paths are the roots to walk (empty = current directory).
	Paths []string
	// Threads is the number of directory-reading workers per root (0 = default).
	Threads int
	// Format is the unit system used for sizes.
	Format bytefmt.System
	// Color is the requested color behavior.
	Color color.Choice
	// Sort is the per-directory entry order.
	Sort walk.Sort
	// Output represents output format (table, list, json or yaml).
	Output string
	// Parallel is the number of roots walked at once.
	Parallel int
	// Progress enables the progress line on terminals.
	Progress bool
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// loadSettings resolves and validates every setting from cfg.
func loadSettings(cfg *viper.Viper) (Settings, error) {
	settings := Settings{
		Threads:  cfg.GetInt("threads"),
		Output:   strings.ToLower(strings.TrimSpace(cfg.GetString("output"))),
		Parallel: cfg.GetInt("parallel"),
		Progress: cfg.GetBool("progress"),
		Debug:    cfg.GetBool("debug"),
	}

	var err error

	if settings.Format, err = bytefmt.Parse(cfg.GetString("format")); err != nil {
		return settings, fmt.Errorf("invalid format: %w", err)
	}

	if settings.Sort, err = walk.ParseSort(cfg.GetString("sort")); err != nil {
		return settings, fmt.Errorf("invalid sort: %w", err)
	}

	if settings.Color, err = color.ParseChoice(cfg.GetString("color")); err != nil {
		return settings, fmt.Errorf("invalid color: %w", err)
	}

	if !slices.Contains(allowedOutputs, settings.Output) {
		return settings, fmt.Errorf("invalid output format %q: must be one of %v", settings.Output, allowedOutputs)
	}

	if settings.Threads < 0 {
		return settings, errors.New("threads cannot be negative")
	}

	if settings.Parallel < 1 {
		return settings, errors.New("parallel must be at least 1")
	}

	return settings, nil
}
