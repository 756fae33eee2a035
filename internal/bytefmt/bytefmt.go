package bytefmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrUnknownSystem is returned when parsing an unrecognized unit system name.
var ErrUnknownSystem = errors.New("unknown byte format")

// System selects the unit system used to render byte counts.
type System uint8

const (
	// Metric uses powers of 1000 (kB, MB, GB, ...).
	Metric System = iota
	// Binary uses powers of 1024 (KiB, MiB, GiB, ...).
	Binary
	// Bytes renders the raw count with a "b" suffix.
	Bytes
)

// numberWidth is the minimum width of the numeric field.
const numberWidth = 8

type unit struct {
	name string
	size uint64
}

// Ordered smallest to largest. The first entry is the fallback for values below one kilo unit.
//
//nolint:gochecknoglobals // Lookup tables
var (
	metricUnits = []unit{
		{"B", humanize.Byte},
		{"kB", humanize.KByte},
		{"MB", humanize.MByte},
		{"GB", humanize.GByte},
		{"TB", humanize.TByte},
		{"PB", humanize.PByte},
		{"EB", humanize.EByte},
	}
	binaryUnits = []unit{
		{"B", humanize.Byte},
		{"KiB", humanize.KiByte},
		{"MiB", humanize.MiByte},
		{"GiB", humanize.GiByte},
		{"TiB", humanize.TiByte},
		{"PiB", humanize.PiByte},
		{"EiB", humanize.EiByte},
	}
)

// Format renders b in the given unit system.
//
// Bytes yields "<b> b" without padding. Metric and Binary pick the largest unit
// whose scaled value is at least 1, print it with two decimals right-aligned in
// eight columns, followed by the unit right-aligned in two (Metric) or three
// (Binary) columns.
func Format(b uint64, system System) string {
	var (
		units []unit
		width int
	)

	switch system {
	case Bytes:
		return fmt.Sprintf("%d b", b)
	case Binary:
		units, width = binaryUnits, 3
	default:
		units, width = metricUnits, 2
	}

	chosen := units[0]

	for _, u := range units[1:] {
		if b < u.size {
			break
		}

		chosen = u
	}

	value := float64(b) / float64(chosen.size)

	return fmt.Sprintf("%*.2f %*s", numberWidth, value, width, chosen.name)
}

// Format renders b in this unit system.
func (s System) Format(b uint64) string {
	return Format(b, s)
}

// String returns the configuration name of the system.
func (s System) String() string {
	switch s {
	case Metric:
		return "metric"
	case Binary:
		return "binary"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("System(%d)", uint8(s))
	}
}

// Set parses name into s. It satisfies pflag.Value.
func (s *System) Set(name string) error {
	parsed, err := Parse(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Type names the flag value type in help output.
func (s *System) Type() string {
	return "format"
}

// Parse returns the System for name. Matching is case-insensitive.
func Parse(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "metric", "si", "decimal":
		return Metric, nil
	case "binary", "iec":
		return Binary, nil
	case "bytes", "b":
		return Bytes, nil
	default:
		return Metric, fmt.Errorf("%w %q: must be one of metric, binary, bytes", ErrUnknownSystem, name)
	}
}
