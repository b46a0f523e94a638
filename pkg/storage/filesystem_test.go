package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("payroll/job-1.csv", []byte("Employee,Total\n"))
	require.NoError(t, err)
	assert.Equal(t, "payroll/job-1.csv", name)

	file, err := store.Open("payroll/job-1.csv")
	require.NoError(t, err)
	defer file.Close()

	content, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.Equal(t, "Employee,Total\n", string(content))

	_, err = store.Open("payroll/missing.csv")
	assert.Error(t, err)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("x"))
	require.NoError(t, err)
	_, err = store.Save("fresh.csv", []byte("y"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), stale, stale))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = store.Open("fresh.csv")
	assert.NoError(t, err)
	_, err = store.Open("old.csv")
	assert.Error(t, err)
}
