package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("timetables/week.csv", []byte("subject\nMath\n"))
	require.NoError(t, err)
	assert.Equal(t, "timetables/week.csv", name)

	path := store.Path(name)
	assert.Equal(t, filepath.Join(dir, "timetables", "week.csv"), path)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "subject\nMath\n", string(body))

	_, err = store.Save(name, []byte("subject\n"))
	require.NoError(t, err)
	body, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "subject\n", string(body))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("../outside.csv", []byte("x"))
	assert.Error(t, err)
	_, err = store.Save(filepath.Join(dir, "abs.csv"), []byte("x"))
	assert.Error(t, err)
	_, err = store.Save("", []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, store.Path("../outside.csv"))
}
