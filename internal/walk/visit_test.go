package walk

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vanishingEntry is a directory entry whose file disappears before its metadata is read.
type vanishingEntry struct {
	name string
}

func (e vanishingEntry) Name() string               { return e.name }
func (e vanishingEntry) IsDir() bool                { return false }
func (e vanishingEntry) Type() fs.FileMode          { return 0 }
func (e vanishingEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrNotExist }

func TestVisitForwardsReadErrors(t *testing.T) {
	root := t.TempDir()
	w := &Walker{root: root, opts: Options{Metadata: true}}

	denied := errors.New("permission denied")
	path := filepath.Join(root, "sub", "locked")

	res, ret := w.visit(path, nil, denied)

	require.NotNil(t, res)
	require.NoError(t, ret, "entry errors never stop the walk")
	require.ErrorIs(t, res.err, denied)
	assert.Equal(t, path, res.entry.Path)
	assert.Equal(t, 2, res.entry.Depth)
}

func TestVisitReportsVanishedFiles(t *testing.T) {
	root := t.TempDir()
	w := &Walker{root: root, opts: Options{Metadata: true}}

	res, ret := w.visit(filepath.Join(root, "gone"), vanishingEntry{name: "gone"}, nil)

	require.NotNil(t, res)
	require.NoError(t, ret)
	require.ErrorIs(t, res.err, fs.ErrNotExist)
	assert.Equal(t, "gone", res.entry.Name)
	assert.Equal(t, File, res.entry.Kind)
	assert.Zero(t, res.entry.Size)
}

func TestVisitWithoutMetadataSkipsInfo(t *testing.T) {
	root := t.TempDir()
	w := &Walker{root: root}

	res, ret := w.visit(filepath.Join(root, "gone"), vanishingEntry{name: "gone"}, nil)

	require.NotNil(t, res)
	require.NoError(t, ret)
	require.NoError(t, res.err)
}
