package engine

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/txtcopy/internal/event"
	"github.com/bamsammich/txtcopy/internal/stats"
)

func located(t *testing.T, paths ...string) []LocatedFile {
	t.Helper()
	files := make([]LocatedFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		size := int64(0)
		if err == nil {
			size = info.Size()
		}
		files = append(files, LocatedFile{Path: p, RelPath: filepath.Base(p), Size: size})
	}
	return files
}

func TestCopyAll_RenamesWithSuffix(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"index.php": "<?php ?>", "app.js": "let x"})

	c := NewCopier(CopierConfig{Dst: dst})
	copied, failed := c.CopyAll(context.Background(),
		located(t, filepath.Join(src, "index.php"), filepath.Join(src, "app.js")))

	assert.Equal(t, 2, copied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"app.js.txt", "index.php.txt"}, listDir(t, dst))

	got, err := os.ReadFile(filepath.Join(dst, "index.php.txt"))
	require.NoError(t, err)
	assert.Equal(t, "<?php ?>", string(got))
}

func TestCopyAll_DoesNotOverwriteExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "new"})
	writeTree(t, dst, map[string]string{"a.py.txt": "old"})

	c := NewCopier(CopierConfig{Dst: dst})
	copied, failed := c.CopyAll(context.Background(), located(t, filepath.Join(src, "a.py")))

	assert.Equal(t, 1, copied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"a.py.txt", "a_1.py.txt"}, listDir(t, dst))

	old, err := os.ReadFile(filepath.Join(dst, "a.py.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
	fresh, err := os.ReadFile(filepath.Join(dst, "a_1.py.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(fresh))
}

func TestCopyAll_SameBaseNameAcrossDirectories(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{
		"index.php":       "root",
		"admin/index.php": "admin",
		"blog/index.php":  "blog",
	})

	c := NewCopier(CopierConfig{Dst: dst})
	copied, failed := c.CopyAll(context.Background(), located(t,
		filepath.Join(src, "index.php"),
		filepath.Join(src, "admin", "index.php"),
		filepath.Join(src, "blog", "index.php"),
	))

	assert.Equal(t, 3, copied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"index.php.txt", "index_1.php.txt", "index_2.php.txt"}, listDir(t, dst))

	for name, want := range map[string]string{
		"index.php.txt":   "root",
		"index_1.php.txt": "admin",
		"index_2.php.txt": "blog",
	} {
		got, err := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), name)
	}
}

func TestCopyAll_CounterSkipsTakenNames(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"index.php": "x"})
	writeTree(t, dst, map[string]string{"index.php.txt": "", "index_1.php.txt": "", "index_3.php.txt": ""})

	c := NewCopier(CopierConfig{Dst: dst})
	copied, _ := c.CopyAll(context.Background(), located(t, filepath.Join(src, "index.php")))

	require.Equal(t, 1, copied)
	assert.FileExists(t, filepath.Join(dst, "index_2.php.txt"))
}

func TestCopyAll_ByteFidelity(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	data := make([]byte, 3*1024*1024+11)
	_, err := rand.Read(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, "blob.css"), data, 0o644))

	c := NewCopier(CopierConfig{Dst: dst})
	copied, _ := c.CopyAll(context.Background(), located(t, filepath.Join(src, "blob.css")))
	require.Equal(t, 1, copied)

	got, err := os.ReadFile(filepath.Join(dst, "blob.css.txt"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyAll_PreservesModeAndTimes(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	path := filepath.Join(src, "run.py")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env python3"), 0o644))
	require.NoError(t, os.Chmod(path, 0o750))
	mtime := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	c := NewCopier(CopierConfig{Dst: dst})
	copied, _ := c.CopyAll(context.Background(), located(t, path))
	require.Equal(t, 1, copied)

	info, err := os.Stat(filepath.Join(dst, "run.py.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v", info.ModTime())
}

func TestCopyAll_FailureContinuesBatch(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "a", "c.py": "c"})
	events := make(chan event.Event, 16)
	collector := stats.NewCollector()

	c := NewCopier(CopierConfig{Dst: dst, Events: events, Stats: collector})
	files := located(t,
		filepath.Join(src, "a.py"),
		filepath.Join(src, "vanished.py"),
		filepath.Join(src, "c.py"),
	)
	copied, failed := c.CopyAll(context.Background(), files)

	assert.Equal(t, 2, copied)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"a.py.txt", "c.py.txt"}, listDir(t, dst))

	evs := collect(events)
	assert.Equal(t, []event.Type{
		event.FileCopied, event.FileFailed, event.FileCopied, event.CopyComplete,
	}, eventTypes(evs))
	assert.Contains(t, evs[1].Error.Error(), "vanished.py")
	assert.Equal(t, int64(2), evs[3].Total)
	assert.Equal(t, int64(1), evs[3].Failed)

	snap := collector.Snapshot()
	assert.Equal(t, int64(2), snap.FilesCopied)
	assert.Equal(t, int64(1), snap.FilesFailed)
	assert.Equal(t, int64(2), snap.BytesCopied)
}

func TestCopyAll_UnwritableDestination(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "a"})
	require.NoError(t, os.Chmod(dst, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dst, 0o755) })

	c := NewCopier(CopierConfig{Dst: dst})
	copied, failed := c.CopyAll(context.Background(), located(t, filepath.Join(src, "a.py")))

	assert.Equal(t, 0, copied)
	assert.Equal(t, 1, failed)
}

func TestCopyAll_Empty(t *testing.T) {
	events := make(chan event.Event, 4)
	c := NewCopier(CopierConfig{Dst: t.TempDir(), Events: events})

	copied, failed := c.CopyAll(context.Background(), nil)

	assert.Zero(t, copied)
	assert.Zero(t, failed)
	assert.Equal(t, []event.Type{event.NothingToCopy}, eventTypes(collect(events)))
}

func TestCopyAll_NoTemporaryFilesLeft(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "a", "b.py": "b"})

	c := NewCopier(CopierConfig{Dst: dst})
	c.CopyAll(context.Background(), located(t,
		filepath.Join(src, "a.py"),
		filepath.Join(src, "missing.py"),
		filepath.Join(src, "b.py"),
	))

	assert.Equal(t, []string{"a.py.txt", "b.py.txt"}, listDir(t, dst))
}

func TestCopyAll_DryRun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"x.py": "1", "sub/x.py": "2"})
	writeTree(t, dst, map[string]string{"x.py.txt": "existing"})
	events := make(chan event.Event, 8)

	c := NewCopier(CopierConfig{Dst: dst, DryRun: true, Events: events})
	copied, failed := c.CopyAll(context.Background(), located(t,
		filepath.Join(src, "x.py"),
		filepath.Join(src, "sub", "x.py"),
	))

	assert.Equal(t, 2, copied)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"x.py.txt"}, listDir(t, dst), "dry run must not write")

	evs := collect(events)
	require.Len(t, evs, 3)
	assert.Equal(t, "x_1.py.txt", evs[0].Target)
	assert.Equal(t, "x_2.py.txt", evs[1].Target)
	assert.True(t, evs[0].DryRun)
}

func TestCopyAll_CancelledStopsBeforeNextFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	events := make(chan event.Event, 4)

	c := NewCopier(CopierConfig{Dst: dst, Events: events})
	copied, failed := c.CopyAll(ctx, located(t, filepath.Join(src, "a.py")))

	assert.Zero(t, copied)
	assert.Zero(t, failed)
	assert.Empty(t, listDir(t, dst))

	evs := collect(events)
	require.Equal(t, []event.Type{event.CopyComplete}, eventTypes(evs))
	assert.Equal(t, int64(1), evs[0].Skipped)
}

// cancelAfterChecks reports cancellation once Err has been consulted more
// than limit times, which stops CopyAll at an exact file boundary.
type cancelAfterChecks struct {
	context.Context
	checks, limit int
}

func (c *cancelAfterChecks) Err() error {
	c.checks++
	if c.checks > c.limit {
		return context.Canceled
	}
	return nil
}

func TestCopyAll_InterruptReportsSkipped(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.py": "a", "b.py": "b", "c.py": "c"})
	events := make(chan event.Event, 8)
	ctx := &cancelAfterChecks{Context: context.Background(), limit: 1}

	c := NewCopier(CopierConfig{Dst: dst, Events: events})
	copied, failed := c.CopyAll(ctx, located(t,
		filepath.Join(src, "a.py"),
		filepath.Join(src, "b.py"),
		filepath.Join(src, "c.py"),
	))

	assert.Equal(t, 1, copied)
	assert.Zero(t, failed)
	assert.Equal(t, []string{"a.py.txt"}, listDir(t, dst))

	evs := collect(events)
	require.Equal(t, []event.Type{event.FileCopied, event.CopyComplete}, eventTypes(evs))
	assert.Equal(t, int64(1), evs[1].Total)
	assert.Equal(t, int64(2), evs[1].Skipped)
}

func TestCopyAll_ErrorNamesPathOnce(t *testing.T) {
	src := t.TempDir()
	missing := filepath.Join(src, "gone.py")
	events := make(chan event.Event, 4)

	c := NewCopier(CopierConfig{Dst: t.TempDir(), Events: events})
	_, failed := c.CopyAll(context.Background(), []LocatedFile{{Path: missing, RelPath: "gone.py"}})
	require.Equal(t, 1, failed)

	evs := collect(events)
	require.Equal(t, event.FileFailed, evs[0].Type)
	msg := evs[0].Error.Error()
	assert.Equal(t, 1, strings.Count(msg, missing), msg)
	assert.ErrorIs(t, evs[0].Error, os.ErrNotExist)
}

func TestCopyAll_WithBandwidthLimit(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.html": "<html></html>"})

	c := NewCopier(CopierConfig{Dst: dst, Limiter: NewBWLimiter(1 << 20)})
	copied, _ := c.CopyAll(context.Background(), located(t, filepath.Join(src, "a.html")))
	require.Equal(t, 1, copied)

	got, err := os.ReadFile(filepath.Join(dst, "a.html.txt"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(got))
}
