package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"
)

// ErrConsumed is yielded when a Walker is iterated a second time.
var ErrConsumed = errors.New("walker already consumed")

// Kind classifies an entry.
type Kind uint8

const (
	// Other covers devices, sockets, pipes and anything else.
	Other Kind = iota
	// File is a regular file.
	File
	// Dir is a directory.
	Dir
	// Symlink is a symbolic link. Links are never followed.
	Symlink
)

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Dir:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "other"
	}
}

// kindOf classifies a directory entry by its type bits.
func kindOf(d fs.DirEntry) Kind {
	if d == nil {
		return Other
	}

	switch t := d.Type(); {
	case t.IsDir():
		return Dir
	case t&fs.ModeSymlink != 0:
		return Symlink
	case t.IsRegular():
		return File
	default:
		return Other
	}
}

// Entry describes a single filesystem object found during a walk.
type Entry struct {
	// Path is the entry path, rooted at the walk root.
	Path string
	// Name is the final path element.
	Name string
	// Kind classifies the entry.
	Kind Kind
	// Size is the size in bytes as reported by lstat.
	Size uint64
	// Depth is the distance from the root (the root itself is 0).
	Depth int
}

// result pairs an entry with its error on the producer channel.
type result struct {
	entry Entry
	err   error
}

// Walker is a lazy, single-use sequence of entries below a root.
type Walker struct {
	root string
	info fs.FileInfo
	opts Options
	used atomic.Bool
}

// New prepares a walk of root. The walk itself starts when the sequence is first pulled.
// A root that is missing, or a root directory that cannot be read, is reported here
// and no entries are produced.
func New(root string, opts Options) (*Walker, error) {
	if root == "" {
		root = "."
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", root, err)
	}

	if info.IsDir() {
		f, err := os.Open(root)
		if err != nil {
			return nil, fmt.Errorf("accessing path %q: %w", root, err)
		}

		_ = f.Close()
	}

	return &Walker{root: root, info: info, opts: opts}, nil
}

// Root returns the cleaned root path.
func (w *Walker) Root() string {
	return w.root
}

// Options returns the options the walker was created with.
func (w *Walker) Options() Options {
	return w.opts
}

// All returns the entries of the walk. Each element is either an entry with a nil
// error, or an entry carrying only its path (and kind when known) with the error
// that prevented reading it.
//
// Entry errors do not stop the walk. Stopping the range loop, or cancelling ctx,
// stops it and waits for all workers to exit. The sequence can be ranged over once;
// later iterations yield a single ErrConsumed.
func (w *Walker) All(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if !w.used.CompareAndSwap(false, true) {
			yield(Entry{Path: w.root}, ErrConsumed)

			return
		}

		if !w.info.IsDir() {
			if ctx.Err() == nil {
				yield(w.rootEntry(), nil)
			}

			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		conf := w.opts.config()
		results := make(chan result, 16*conf.NumWorkers)

		group, ctx := errgroup.WithContext(ctx)

		group.Go(func() error {
			defer close(results)

			//nolint:varnamelen // d is standard for DirEntry
			return fastwalk.Walk(&conf, w.root, func(path string, d fs.DirEntry, err error) error {
				res, ret := w.visit(path, d, err)
				if res == nil {
					return ret
				}

				select {
				case results <- *res:
					return ret
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})

		stopped := false

		for res := range results {
			if !yield(res.entry, res.err) {
				stopped = true

				cancel()

				break
			}
		}

		err := group.Wait()
		if stopped || err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}

		yield(Entry{Path: w.root}, err)
	}
}

// Pull exposes All as a next/stop pair for callers that drive the walk step by step.
// stop must be called if next has not reported the end of the sequence.
func (w *Walker) Pull(ctx context.Context) (func() (Entry, error, bool), func()) {
	return iter.Pull2(w.All(ctx))
}

// rootEntry describes a root that is not a directory. It is the only entry of its walk.
func (w *Walker) rootEntry() Entry {
	entry := Entry{
		Path: w.root,
		Name: w.info.Name(),
		Kind: kindOf(fs.FileInfoToDirEntry(w.info)),
	}

	if size := w.info.Size(); w.opts.Metadata && size > 0 {
		entry.Size = uint64(size)
	}

	return entry
}

// visit converts one fastwalk callback into a result. A nil result means nothing is
// emitted; the returned error is handed back to fastwalk (nil or filepath.SkipDir).
//
//nolint:varnamelen // d is standard for DirEntry
func (w *Walker) visit(path string, d fs.DirEntry, err error) (*result, error) {
	entry := Entry{
		Path:  path,
		Name:  filepath.Base(path),
		Kind:  kindOf(d),
		Depth: calculateDepth(path, w.root),
	}

	if err != nil {
		return &result{entry: entry, err: err}, nil
	}

	if w.opts.SkipHidden && entry.Depth > 0 && strings.HasPrefix(d.Name(), ".") {
		if d.IsDir() {
			return nil, filepath.SkipDir
		}

		return nil, nil
	}

	entry.Name = d.Name()

	if !w.opts.Metadata {
		return &result{entry: entry}, nil
	}

	info, err := d.Info()
	if err != nil {
		return &result{entry: entry, err: err}, nil
	}

	if size := info.Size(); size > 0 {
		entry.Size = uint64(size)
	}

	return &result{entry: entry}, nil
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = strings.TrimPrefix(strings.TrimPrefix(path, root), string(filepath.Separator))
	}

	if relPath == "" || relPath == "." {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}
