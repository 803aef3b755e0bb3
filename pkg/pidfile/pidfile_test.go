package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mittwald/healthd/pkg/pidfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPidFileCanBeAcquiredAndReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "healthd.pid")
	f := pidfile.New(path)

	require.NoError(t, f.Acquire())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d", os.Getpid()), string(content))

	require.NoError(t, f.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPidFileCanBeAcquiredWhenOutdatedFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthd.pid")
	require.NoError(t, os.WriteFile(path, []byte("999999999\n"), 0o644))

	f := pidfile.New(path)
	require.NoError(t, f.Acquire())
	require.NoError(t, f.Release())
}

func TestPidFileCannotBeAcquiredWhileAlreadyHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthd.pid")
	f1 := pidfile.New(path)
	f2 := pidfile.New(path)

	require.NoError(t, f1.Acquire())
	assert.Error(t, f2.Acquire())
	require.NoError(t, f1.Release())
	require.NoError(t, f2.Acquire())
	require.NoError(t, f2.Release())
}

func TestPidFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "healthd.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	assert.Error(t, pidfile.New(path).Acquire())
}

func TestEmptyPathIsDisabled(t *testing.T) {
	f := pidfile.New("")

	assert.NoError(t, f.Acquire())
	assert.NoError(t, f.Release())
}
