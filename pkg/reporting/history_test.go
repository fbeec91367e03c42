/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: history_test.go
Description: Tests for storing and listing run history.
*/

package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHistory(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHistory(dir, "device emulator-5554", "1.0.0", sampleRun())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "device-emulator-5554", "2024-02-24_09-00-00_device-emulator-5554_v1.0.0.json"), path)

	path, err = WriteHistory(dir, "https://forms.example.org/date", "1.0.0", sampleRun())
	require.NoError(t, err)
	assert.Equal(t, "web", filepath.Base(filepath.Dir(path)))

	_, err = WriteHistory(dir, "device", "1.0.0", nil)
	assert.Error(t, err)
}

func TestLoadHistoryNewestFirst(t *testing.T) {
	dir := t.TempDir()
	older := sampleRun()
	newer := sampleRun()
	newer.ID = "run-2"
	newer.Started = older.Started.Add(time.Hour)

	_, err := WriteHistory(dir, "device", "1.0.0", older)
	require.NoError(t, err)
	_, err = WriteHistory(dir, "device", "1.0.1", newer)
	require.NoError(t, err)
	// stray files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "device", "junk.json"), []byte("{"), 0644))

	entries, err := LoadHistory(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-2", entries[0].Run.ID)
	assert.Equal(t, "1.0.1", entries[0].Version)
	assert.Equal(t, "device", entries[0].Target)
	assert.Equal(t, 1, entries[1].Run.Failed())
	assert.NotEmpty(t, entries[1].Path)

	assert.Equal(t, 2*time.Hour, entries[0].Age(newer.Started.Add(2*time.Hour)))
}

func TestLoadHistoryEmpty(t *testing.T) {
	entries, err := LoadHistory(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

