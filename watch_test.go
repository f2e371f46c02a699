package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	err := watchDir(ctx, dir, 20*time.Millisecond, func() { changed <- struct{}{} }, zap.NewNop())
	require.NoError(t, err)

	// not an SPE file
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-changed:
		t.Fatal("change reported for a non SPE file")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.SPE"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.spe"), nil, 0644))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchDirMissing(t *testing.T) {
	err := watchDir(context.Background(), filepath.Join(t.TempDir(), "gone"), time.Millisecond, func() {}, zap.NewNop())
	require.Error(t, err)
}
