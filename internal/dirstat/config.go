package dirstat

import (
	"github.com/muesli/termenv"

	"github.com/idelchi/dusage/internal/bytefmt"
	"github.com/idelchi/dusage/internal/color"
	"github.com/idelchi/dusage/internal/walk"
)

// Config is the traversal policy for one or more walks. It holds no mutable
// state and may be shared by concurrent walks.
type Config struct {
	// Threads is the number of directory-reading workers (0 = walker default).
	Threads int
	// Format is the unit system used for rendering sizes.
	Format bytefmt.System
	// Color decides whether rendered output carries color sequences.
	Color color.Mode
}

// Begin prepares a walk of root. Entries carry their size, hidden entries are
// always included, and sort decides the order within each directory.
//
// Problems with root itself are reported by the walker.
func (c Config) Begin(root string, sort walk.Sort) (*walk.Walker, error) {
	return walk.New(root, walk.Options{
		Threads:    c.Threads,
		Sort:       sort,
		Metadata:   true,
		SkipHidden: false,
	})
}

// FormatBytes renders b with the configured unit system.
func (c Config) FormatBytes(b uint64) string {
	return bytefmt.Format(b, c.Format)
}

// Paint colors text with c when color is enabled.
func (c Config) Paint(text string, col termenv.Color) string {
	return c.Color.Paint(text, col)
}
