package dirstat

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/dusage/internal/walk"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Summary is the outcome of walking one root.
type Summary struct {
	// Root is the walked path.
	Root string `json:"root" yaml:"root"`
	// Result holds the error count and statistics.
	Result WalkResult `json:"result" yaml:"result"`
	// Elapsed is the time spent walking.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	// Err is set when the root could not be walked, or the walk was cancelled.
	// Result then holds whatever was observed before the failure.
	Err error `json:"-" yaml:"-"`
}

// RunOptions controls the runner around the walk itself.
type RunOptions struct {
	// ProgressHook receives the running file count and byte total on every tick.
	ProgressHook func(files, bytes int64)
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Parallel is the number of roots walked at once by RunAll (0 = 1).
	Parallel int
	// Debug enables debug output.
	Debug bool
	// Log receives debug output (nil = stderr).
	Log io.Writer
}

// logger provides conditional debug output.
type logger struct {
	enabled bool
	out     io.Writer
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.out, format, args...)
	}
}

func newLogger(opt RunOptions) logger {
	out := opt.Log
	if out == nil {
		out = os.Stderr
	}

	return logger{enabled: opt.Debug, out: out}
}

// progress holds running totals shared between walks and the reporter.
type progress struct {
	files atomic.Int64
	bytes atomic.Int64
}

func (p *progress) addFile(size uint64) {
	p.files.Add(1)
	p.bytes.Add(int64(size)) //nolint:gosec // File sizes fit in int64
}

// startProgressReporter invokes hook(files, bytes) on each tick until the returned
// stop is called. stop returns once the hook can no longer be invoked.
func startProgressReporter(p *progress, hook func(int64, int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.files.Load(), p.bytes.Load())
			case <-quit:
				return
			}
		}
	}()

	return sync.OnceFunc(func() {
		close(quit)
		<-done
	})
}

// Run walks root with cfg and returns its summary.
//
// Unreadable entries are counted in the result and do not stop the walk. A root
// that cannot be accessed yields a summary with Err set and an empty result.
// Cancelling ctx stops the walk; the partial result is returned with Err set
// to the context error.
func Run(ctx context.Context, cfg Config, root string, sort walk.Sort, opt RunOptions) Summary {
	p := &progress{}

	stop := startProgressReporter(p, opt.ProgressHook, opt.ProgressInterval)
	defer stop()

	return run(ctx, cfg, root, sort, newLogger(opt), p)
}

// RunAll walks every root with cfg, up to opt.Parallel at a time, and returns the
// summaries in the order of roots. Each walk owns its own result; a failing root
// does not affect the others. Progress totals span all roots.
func RunAll(ctx context.Context, cfg Config, roots []string, sort walk.Sort, opt RunOptions) []Summary {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	p := &progress{}

	stop := startProgressReporter(p, opt.ProgressHook, opt.ProgressInterval)
	defer stop()

	log := newLogger(opt)
	summaries := make([]Summary, len(roots))

	group := new(errgroup.Group)
	group.SetLimit(max(opt.Parallel, 1))

	for i, root := range roots {
		group.Go(func() error {
			summaries[i] = run(ctx, cfg, root, sort, log, p)

			return nil
		})
	}

	_ = group.Wait()

	return summaries
}

// Aggregate merges the results of several summaries into one.
func Aggregate(summaries []Summary) WalkResult {
	var total WalkResult

	for _, s := range summaries {
		total.Merge(s.Result)
	}

	return total
}

func run(ctx context.Context, cfg Config, root string, sort walk.Sort, log logger, p *progress) Summary {
	summary := Summary{Root: root}
	start := time.Now()

	log.printf("[debug]: walking %q (threads: %d, sort: %s)\n", root, cfg.Threads, sort)

	walker, err := cfg.Begin(root, sort)
	if err != nil {
		log.printf("[debug]: %v\n", err)

		summary.Err = err
		summary.Elapsed = time.Since(start)

		return summary
	}

	summary.Root = walker.Root()

	for entry, err := range walker.All(ctx) {
		if err != nil {
			log.printf("[debug]: error accessing path %s: %v\n", entry.Path, err)
		} else if entry.Kind == walk.File {
			p.addFile(entry.Size)
		}

		summary.Result.Observe(entry, err)
	}

	if err := ctx.Err(); err != nil {
		summary.Err = fmt.Errorf("walking %q: %w", summary.Root, err)
	}

	summary.Elapsed = time.Since(start)

	log.printf("[debug]: finished %q: %d files, %d errors in %v\n",
		summary.Root, summary.Result.Stats.FilesTraversed, summary.Result.NumErrors, summary.Elapsed)

	return summary
}
