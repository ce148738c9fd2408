package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"code_practice_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grading:\n  correct_similarity: 90\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loads := make(chan struct{}, 4)
	load := func() (*config.Config, error) {
		loads <- struct{}{}
		return &config.Config{}, nil
	}
	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, load, func(cfg *config.Config) { reloaded <- cfg }, 50*time.Millisecond)
	}()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("grading:\n  correct_similarity: 80\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.NotNil(t, cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfigIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go WatchConfig(ctx, path, func() (*config.Config, error) { return &config.Config{}, nil },
		func(*config.Config) { reloaded <- struct{}{} }, 50*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("unexpected reload")
	case <-time.After(400 * time.Millisecond):
	}
}
