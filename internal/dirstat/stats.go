package dirstat

import (
	"github.com/idelchi/dusage/internal/walk"
)

// Statistics holds size aggregates over the regular files of a walk.
//
// Before any file is observed SmallestFileBytes and LargestFileBytes are both zero,
// the same values an empty file would produce. Use HasFiles to tell the cases apart.
type Statistics struct {
	// FilesTraversed is the number of regular files observed.
	FilesTraversed uint64 `json:"files_traversed" yaml:"files_traversed"`
	// SmallestFileBytes is the size of the smallest regular file.
	SmallestFileBytes uint64 `json:"smallest_file_bytes" yaml:"smallest_file_bytes"`
	// LargestFileBytes is the size of the largest regular file.
	LargestFileBytes uint64 `json:"largest_file_bytes" yaml:"largest_file_bytes"`
	// TotalBytes is the cumulative size of all regular files.
	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
	// DirsTraversed is the number of directories observed, the root included.
	DirsTraversed uint64 `json:"dirs_traversed" yaml:"dirs_traversed"`
}

// HasFiles reports whether at least one regular file was observed.
func (s Statistics) HasFiles() bool {
	return s.FilesTraversed > 0
}

// WalkResult is the outcome of a single walk. It is owned by the goroutine
// consuming the walk and is not safe for concurrent mutation.
type WalkResult struct {
	// NumErrors is the number of entries that could not be read.
	NumErrors uint64 `json:"num_errors" yaml:"num_errors"`
	// Stats holds the size aggregates.
	Stats Statistics `json:"stats" yaml:"stats"`
}

// Observe folds one walk element into the result.
//
// An error is counted and otherwise ignored. Regular files update the count, the
// size bounds and the total. Directories are counted separately and never touch
// the size statistics. Symlinks and other kinds are ignored.
func (r *WalkResult) Observe(entry walk.Entry, err error) {
	if err != nil {
		r.NumErrors++

		return
	}

	switch entry.Kind {
	case walk.File:
		r.addFile(entry.Size)
	case walk.Dir:
		r.Stats.DirsTraversed++
	case walk.Symlink, walk.Other:
	}
}

func (r *WalkResult) addFile(size uint64) {
	s := &r.Stats

	if s.FilesTraversed == 0 {
		s.SmallestFileBytes = size
		s.LargestFileBytes = size
	} else {
		s.SmallestFileBytes = min(s.SmallestFileBytes, size)
		s.LargestFileBytes = max(s.LargestFileBytes, size)
	}

	s.FilesTraversed++
	s.TotalBytes += size
}

// Merge adds other into r as if both walks had been observed by r.
func (r *WalkResult) Merge(other WalkResult) {
	r.NumErrors += other.NumErrors

	s, o := &r.Stats, other.Stats

	if o.HasFiles() {
		if s.HasFiles() {
			s.SmallestFileBytes = min(s.SmallestFileBytes, o.SmallestFileBytes)
			s.LargestFileBytes = max(s.LargestFileBytes, o.LargestFileBytes)
		} else {
			s.SmallestFileBytes = o.SmallestFileBytes
			s.LargestFileBytes = o.LargestFileBytes
		}
	}

	s.FilesTraversed += o.FilesTraversed
	s.TotalBytes += o.TotalBytes
	s.DirsTraversed += o.DirsTraversed
}
