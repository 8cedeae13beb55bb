package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/txtcopy/internal/event"
	"github.com/bamsammich/txtcopy/internal/filter"
	"github.com/bamsammich/txtcopy/internal/stats"
)

var errNotDir = errors.New("not a directory")

// LocatorConfig controls a locate pass.
type LocatorConfig struct {
	Root       string
	Extensions filter.ExtensionSet
	Exclude    *filter.Chain // optional
	Events     chan<- event.Event
	Stats      *stats.Collector // optional
}

// LocatedFile is a regular file whose extension matched the filter set.
type LocatedFile struct {
	Path    string // Root joined with RelPath
	RelPath string
	Size    int64
}

// Locate walks cfg.Root and returns every matching regular file. It never
// fails: a missing root yields an empty result, unreadable directories are
// logged and skipped. Within a directory, files come before subdirectories
// and both are visited in name order.
func Locate(ctx context.Context, cfg LocatorConfig) []LocatedFile {
	info, err := os.Stat(cfg.Root)
	if err == nil && !info.IsDir() {
		err = &os.PathError{Op: "locate", Path: cfg.Root, Err: errNotDir}
	}
	if err != nil {
		slog.Debug("source unavailable", "path", cfg.Root, "error", err)
		event.Emit(cfg.Events, event.Event{Type: event.SourceMissing, Path: cfg.Root, Error: err})
		return nil
	}

	event.Emit(cfg.Events, event.Event{
		Type:    event.ScanStarted,
		Path:    cfg.Root,
		Formats: cfg.Extensions.List(),
	})

	l := &locator{cfg: cfg}
	l.walk(ctx, cfg.Root, "")

	event.Emit(cfg.Events, event.Event{
		Type:  event.ScanComplete,
		Path:  cfg.Root,
		Total: int64(len(l.files)),
	})
	return l.files
}

type locator struct {
	cfg   LocatorConfig
	files []LocatedFile
}

func (l *locator) walk(ctx context.Context, dir, rel string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory", "path", dir, "error", err)
		if len(entries) == 0 {
			return
		}
	}

	var subdirs []os.DirEntry
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		entryPath := filepath.Join(dir, entry.Name())
		entryRel := filepath.Join(rel, entry.Name())
		mode := entry.Type()

		switch {
		case mode.IsDir():
			if l.cfg.Exclude.Excluded(entryRel, true) {
				slog.Debug("excluded directory", "path", entryPath)
				continue
			}
			subdirs = append(subdirs, entry)

		case mode.IsRegular():
			if !l.cfg.Extensions.Match(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				slog.Debug("entry vanished", "path", entryPath, "error", err)
				continue
			}
			l.add(entryPath, entryRel, info)

		case mode&os.ModeSymlink != 0:
			if !l.cfg.Extensions.Match(entry.Name()) {
				continue
			}
			// Symlinked files are copied by content; symlinked
			// directories are not descended into.
			info, err := os.Stat(entryPath)
			if err != nil || !info.Mode().IsRegular() {
				slog.Debug("skipping symlink", "path", entryPath, "error", err)
				continue
			}
			l.add(entryPath, entryRel, info)
		}
	}

	for _, sub := range subdirs {
		if ctx.Err() != nil {
			return
		}
		l.walk(ctx, filepath.Join(dir, sub.Name()), filepath.Join(rel, sub.Name()))
	}
}

func (l *locator) add(path, rel string, info os.FileInfo) {
	if l.cfg.Exclude.Excluded(rel, false) {
		slog.Debug("excluded file", "path", path)
		return
	}
	l.files = append(l.files, LocatedFile{Path: path, RelPath: rel, Size: info.Size()})
	if l.cfg.Stats != nil {
		l.cfg.Stats.AddLocated(info.Size())
	}
}
