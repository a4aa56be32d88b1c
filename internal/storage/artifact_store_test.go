package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreSaveAndRead(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("report_abc.csv", []byte("Sector,Fecha\n"))
	require.NoError(t, err)
	assert.Equal(t, store.Path("report_abc.csv"), path)

	data, err := store.Read("report_abc.csv")
	require.NoError(t, err)
	assert.Equal(t, "Sector,Fecha\n", string(data))
}

func TestArtifactStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	_, err := NewArtifactStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArtifactStoreOverwrite(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("report.pdf", []byte("first"))
	require.NoError(t, err)
	_, err = store.Save("report.pdf", []byte("second"))
	require.NoError(t, err)

	data, err := store.Read("report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestArtifactStoreReadMissing(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("missing.xlsx")
	assert.Error(t, err)
}
