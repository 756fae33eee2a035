package walk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charlievieth/fastwalk"
)

// ErrUnknownSort is returned when parsing an unrecognized sort policy.
var ErrUnknownSort = errors.New("unknown sort policy")

// Sort controls the order of entries within a directory.
type Sort uint8

const (
	// SortNone yields entries in whatever order the walk produces them.
	SortNone Sort = iota
	// SortAlphabetical yields entries of each directory ordered by name.
	SortAlphabetical
)

// String returns the configuration name of the policy.
func (s Sort) String() string {
	switch s {
	case SortNone:
		return "none"
	case SortAlphabetical:
		return "alpha"
	default:
		return fmt.Sprintf("Sort(%d)", uint8(s))
	}
}

// Set parses name into s. It satisfies pflag.Value.
func (s *Sort) Set(name string) error {
	parsed, err := ParseSort(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Type names the flag value type in help output.
func (s *Sort) Type() string {
	return "sort"
}

// ParseSort returns the Sort for name. Matching is case-insensitive.
func ParseSort(name string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return SortNone, nil
	case "alpha", "alphabetical", "name":
		return SortAlphabetical, nil
	default:
		return SortNone, fmt.Errorf("%w %q: must be one of none, alpha", ErrUnknownSort, name)
	}
}

// Options configures a walk.
type Options struct {
	// Threads is the number of directory-reading workers (0 = fastwalk default).
	// It is a hint: alphabetical walks always use a single worker.
	Threads int
	// Sort selects the per-directory entry order.
	Sort Sort
	// Metadata requests the size of every entry. Without it Entry.Size is zero.
	Metadata bool
	// SkipHidden drops dot-prefixed entries below the root.
	SkipHidden bool
}

// config translates the options into a fastwalk configuration.
func (o Options) config() fastwalk.Config {
	conf := fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: o.workers(),
	}

	if o.Sort == SortAlphabetical {
		conf.Sort = fastwalk.SortLexical
		// Interleaving between workers would make the overall order vary between runs.
		conf.NumWorkers = 1
	}

	return conf
}

func (o Options) workers() int {
	if o.Threads <= 0 {
		return fastwalk.DefaultNumWorkers()
	}

	return o.Threads
}
