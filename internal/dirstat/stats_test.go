package dirstat_test

import (
	"errors"
	"io/fs"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idelchi/dusage/internal/bytefmt"
	"github.com/idelchi/dusage/internal/dirstat"
	"github.com/idelchi/dusage/internal/walk"
)

func file(size uint64) walk.Entry {
	return walk.Entry{Path: "f", Name: "f", Kind: walk.File, Size: size, Depth: 1}
}

func TestObserveScenario(t *testing.T) {
	var result dirstat.WalkResult

	for _, size := range []uint64{10, 1048576, 500} {
		result.Observe(file(size), nil)
	}

	assert.Zero(t, result.NumErrors)
	assert.Equal(t, uint64(3), result.Stats.FilesTraversed)
	assert.Equal(t, uint64(10), result.Stats.SmallestFileBytes)
	assert.Equal(t, uint64(1048576), result.Stats.LargestFileBytes)
	assert.Equal(t, uint64(10+1048576+500), result.Stats.TotalBytes)

	cfg := dirstat.Config{Format: bytefmt.Binary}
	rendered := cfg.FormatBytes(result.Stats.LargestFileBytes)

	assert.Contains(t, rendered, "1.00")
	assert.Contains(t, rendered, "MiB")
}

func TestObserveEmpty(t *testing.T) {
	var result dirstat.WalkResult

	result.Observe(walk.Entry{Path: ".", Kind: walk.Dir}, nil)

	assert.Zero(t, result.NumErrors)
	assert.Zero(t, result.Stats.FilesTraversed)
	assert.Zero(t, result.Stats.SmallestFileBytes)
	assert.Zero(t, result.Stats.LargestFileBytes)
	assert.False(t, result.Stats.HasFiles())
}

func TestObserveFirstFileSetsBothBounds(t *testing.T) {
	var result dirstat.WalkResult

	result.Observe(file(0), nil)

	assert.True(t, result.Stats.HasFiles(), "an empty file is still a file")
	assert.Zero(t, result.Stats.SmallestFileBytes)
	assert.Zero(t, result.Stats.LargestFileBytes)

	result = dirstat.WalkResult{}
	result.Observe(file(77), nil)

	assert.Equal(t, uint64(77), result.Stats.SmallestFileBytes)
	assert.Equal(t, uint64(77), result.Stats.LargestFileBytes)
}

func TestObserveIsOrderIndependent(t *testing.T) {
	sizes := []uint64{4096, 3, 999, 1 << 33, 17, 3, 65536, 12}
	rng := rand.New(rand.NewPCG(1, 2))

	for range 20 {
		rng.Shuffle(len(sizes), func(i, j int) { sizes[i], sizes[j] = sizes[j], sizes[i] })

		var result dirstat.WalkResult
		for _, s := range sizes {
			result.Observe(file(s), nil)
		}

		assert.Equal(t, slices.Min(sizes), result.Stats.SmallestFileBytes)
		assert.Equal(t, slices.Max(sizes), result.Stats.LargestFileBytes)
		assert.Equal(t, uint64(len(sizes)), result.Stats.FilesTraversed)
	}
}

func TestObserveErrorIsolation(t *testing.T) {
	tests := []struct {
		name   string
		files  []uint64
		errors int
	}{
		{name: "no errors", files: []uint64{5, 50, 500}, errors: 0},
		{name: "some errors", files: []uint64{5, 50, 500}, errors: 4},
		{name: "only errors", files: nil, errors: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result dirstat.WalkResult

			// Interleave errors between files.
			for i := range max(len(tt.files), tt.errors) {
				if i < tt.errors {
					result.Observe(walk.Entry{Path: "locked", Kind: walk.Dir}, fs.ErrPermission)
				}

				if i < len(tt.files) {
					result.Observe(file(tt.files[i]), nil)
				}
			}

			assert.Equal(t, uint64(tt.errors), result.NumErrors)
			assert.Equal(t, uint64(len(tt.files)), result.Stats.FilesTraversed)
			assert.Zero(t, result.Stats.DirsTraversed, "failed entries are not counted as directories")

			if len(tt.files) > 0 {
				assert.Equal(t, slices.Min(tt.files), result.Stats.SmallestFileBytes)
				assert.Equal(t, slices.Max(tt.files), result.Stats.LargestFileBytes)
			} else {
				assert.Zero(t, result.Stats.SmallestFileBytes)
				assert.Zero(t, result.Stats.LargestFileBytes)
			}
		})
	}
}

func TestObserveIgnoresNonFiles(t *testing.T) {
	var result dirstat.WalkResult

	result.Observe(file(100), nil)
	result.Observe(walk.Entry{Path: "d", Kind: walk.Dir, Size: 4096}, nil)
	result.Observe(walk.Entry{Path: "l", Kind: walk.Symlink, Size: 1}, nil)
	result.Observe(walk.Entry{Path: "p", Kind: walk.Other, Size: 0}, nil)

	assert.Equal(t, uint64(1), result.Stats.FilesTraversed)
	assert.Equal(t, uint64(1), result.Stats.DirsTraversed)
	assert.Equal(t, uint64(100), result.Stats.SmallestFileBytes)
	assert.Equal(t, uint64(100), result.Stats.LargestFileBytes)
	assert.Equal(t, uint64(100), result.Stats.TotalBytes)
}

func TestMerge(t *testing.T) {
	observe := func(sizes ...uint64) dirstat.WalkResult {
		var r dirstat.WalkResult
		for _, s := range sizes {
			r.Observe(file(s), nil)
		}

		return r
	}

	t.Run("into empty", func(t *testing.T) {
		var total dirstat.WalkResult

		total.Merge(observe(30, 40))

		assert.Equal(t, observe(30, 40), total)
	})

	t.Run("empty into filled", func(t *testing.T) {
		total := observe(30, 40)
		total.Merge(dirstat.WalkResult{NumErrors: 2})

		assert.Equal(t, uint64(30), total.Stats.SmallestFileBytes)
		assert.Equal(t, uint64(40), total.Stats.LargestFileBytes)
		assert.Equal(t, uint64(2), total.NumErrors)
	})

	t.Run("equals observing everything", func(t *testing.T) {
		total := observe(300, 7)
		total.Merge(observe(5000, 12, 9))

		assert.Equal(t, observe(300, 7, 5000, 12, 9), total)
	})

	t.Run("aggregate", func(t *testing.T) {
		summaries := []dirstat.Summary{
			{Root: "a", Result: observe(1, 2)},
			{Root: "missing", Err: errors.New("gone")},
			{Root: "b", Result: observe(8)},
		}

		assert.Equal(t, observe(1, 2, 8), dirstat.Aggregate(summaries))
	})
}
