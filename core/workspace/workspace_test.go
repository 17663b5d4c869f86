package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"stocktake-manager/core/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_CreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "loja-centro")
	w := Open(&registry.Workspace{Path: root})

	require.NoError(t, w.Ensure())

	for _, dir := range []string{w.DataDir(), w.CountSnapshotDir(), w.ImportsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestStockSnapshotPath_AbsentUntilWritten(t *testing.T) {
	w := &Workspace{Root: t.TempDir()}
	require.NoError(t, w.Ensure())

	_, ok := w.StockSnapshotPath()
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(w.StockFile(), []byte("x"), 0o644))

	path, ok := w.StockSnapshotPath()
	assert.True(t, ok)
	assert.Equal(t, w.StockFile(), path)
}
