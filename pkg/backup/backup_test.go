package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "danted.conf.20260825-143000.bak", Name("/etc/danted.conf", now))
}

func TestDirSinkStores(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	sink := DirSink{Dir: dir}

	require.NoError(t, sink.Store(context.Background(), "danted.conf.20260825-143000.bak", []byte("old config\n")))

	data, err := os.ReadFile(filepath.Join(dir, "danted.conf.20260825-143000.bak"))
	require.NoError(t, err)
	assert.Equal(t, "old config\n", string(data))
}

type failingSink struct{ err error }

func (s failingSink) Store(ctx context.Context, name string, data []byte) error {
	return s.err
}

func TestMultiSinkStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	sink := MultiSink{failingSink{err: boom}, DirSink{Dir: dir}}

	err := sink.Store(context.Background(), "x.bak", []byte("data"))
	assert.ErrorIs(t, err, boom)

	// The second sink never ran.
	_, statErr := os.Stat(filepath.Join(dir, "x.bak"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMultiSinkFansOut(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")
	sink := MultiSink{DirSink{Dir: dirA}, DirSink{Dir: dirB}}

	require.NoError(t, sink.Store(context.Background(), "x.bak", []byte("data")))

	for _, dir := range []string{dirA, dirB} {
		data, err := os.ReadFile(filepath.Join(dir, "x.bak"))
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))
	}
}
