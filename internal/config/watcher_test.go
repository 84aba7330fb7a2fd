package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherStopAfterFailedStart(t *testing.T) {
	// The parent directory does not exist, so Add fails and the watch
	// loop never runs.
	missing := filepath.Join(t.TempDir(), "missing", "config.yaml")
	w, err := NewWatcher(missing, func(*Config) {})
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))

	done := make(chan error, 1)
	go func() { done <- w.Stop() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop hung waiting for a loop that never started")
	}
}

func TestWatcherStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, func(*Config) {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "second Start is a no-op")
	assert.NoError(t, w.Stop())
}
