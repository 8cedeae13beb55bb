package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bamsammich/txtcopy/internal/event"
	"github.com/bamsammich/txtcopy/internal/platform"
	"github.com/bamsammich/txtcopy/internal/stats"
)

// CopierConfig controls the copy-and-rename pass.
type CopierConfig struct {
	Dst     string
	DryRun  bool
	Limiter *rate.Limiter // optional bandwidth cap
	Events  chan<- event.Event
	Stats   *stats.Collector // optional
}

// Copier copies located files into a flat destination directory, renaming
// each to <name>.txt and never overwriting an existing file.
type Copier struct {
	cfg CopierConfig
	// claimed holds names taken during this run. On disk they are also
	// visible through Lstat; in a dry run this set is the only record.
	claimed map[string]struct{}
}

// NewCopier creates a copier for cfg.
func NewCopier(cfg CopierConfig) *Copier {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return &Copier{cfg: cfg, claimed: make(map[string]struct{})}
}

// CopyAll copies files in order. A failing file is reported and counted;
// the batch always continues. Cancelling ctx stops before the next file;
// files never attempted are reported as skipped in CopyComplete.
func (c *Copier) CopyAll(ctx context.Context, files []LocatedFile) (copied, failed int) {
	if len(files) == 0 {
		event.Emit(c.cfg.Events, event.Event{Type: event.NothingToCopy, Path: c.cfg.Dst})
		return 0, 0
	}

	skipped := 0
	for i, f := range files {
		if ctx.Err() != nil {
			skipped = len(files) - i
			slog.Warn("copy interrupted", "remaining", skipped, "error", ctx.Err())
			break
		}

		name, n, err := c.copyOne(ctx, f)
		if err != nil {
			failed++
			c.cfg.Stats.AddFilesFailed(1)
			slog.Debug("copy failed", "path", f.Path, "error", err)
			event.Emit(c.cfg.Events, event.Event{
				Type:  event.FileFailed,
				Path:  f.Path,
				Size:  f.Size,
				Error: err,
			})
			continue
		}

		copied++
		c.cfg.Stats.AddFilesCopied(1)
		c.cfg.Stats.AddBytesCopied(n)
		event.Emit(c.cfg.Events, event.Event{
			Type:   event.FileCopied,
			Path:   f.Path,
			Target: name,
			Size:   n,
			DryRun: c.cfg.DryRun,
		})
	}

	event.Emit(c.cfg.Events, event.Event{
		Type:   event.CopyComplete,
		Path:   c.cfg.Dst,
		Total:   int64(copied),
		Failed:  int64(failed),
		Skipped: int64(skipped),
		DryRun:  c.cfg.DryRun,
	})
	return copied, failed
}

func (c *Copier) copyOne(ctx context.Context, f LocatedFile) (string, int64, error) {
	base := filepath.Base(f.Path)

	// Errors from os already name the operation and the path.
	src, err := os.Open(f.Path)
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", 0, err
	}
	if !info.Mode().IsRegular() {
		return "", 0, fmt.Errorf("%s: not a regular file", f.Path)
	}

	if c.cfg.DryRun {
		name, _, err := c.nextFree(base, 0)
		if err != nil {
			return "", 0, err
		}
		c.claimed[name] = struct{}{}
		return name, info.Size(), nil
	}

	tmpPath := filepath.Join(c.cfg.Dst, ".txtcopy-"+uuid.New().String()[:8]+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, err
	}
	// Published copies are hard links, so the tmp name always goes.
	defer os.Remove(tmpPath)

	n, err := c.copyData(ctx, src, tmp, info.Size())
	if err != nil {
		tmp.Close()
		return "", n, fmt.Errorf("copy data: %w", err)
	}

	if err := platform.SetMetadata(tmp, info.Mode(), platform.AccessTime(info), info.ModTime()); err != nil {
		tmp.Close()
		return "", n, fmt.Errorf("set metadata: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", n, err
	}

	name, err := c.publish(tmpPath, base)
	if err != nil {
		return "", n, err
	}
	return name, n, nil
}

func (c *Copier) copyData(ctx context.Context, src, dst *os.File, size int64) (int64, error) {
	var (
		result platform.CopyResult
		err    error
	)
	if c.cfg.Limiter != nil {
		result, err = platform.CopyStream(dst, newRateLimitedReader(ctx, src, c.cfg.Limiter))
	} else {
		result, err = platform.CopyFile(platform.CopyFileParams{Src: src, Dst: dst, Size: size})
	}
	slog.Debug("copied data",
		"path", src.Name(),
		"bytes", result.BytesWritten,
		"method", result.Method.String(),
	)
	return result.BytesWritten, err
}

// publish gives the finished temporary file its final name. The name is
// created with link(2), which fails rather than replace an existing file,
// so a name claimed by someone else between the check and the link just
// moves resolution on to the next counter.
func (c *Copier) publish(tmpPath, base string) (string, error) {
	attempt := 0
	for {
		name, next, err := c.nextFree(base, attempt)
		if err != nil {
			return "", err
		}
		attempt = next + 1
		target := filepath.Join(c.cfg.Dst, name)

		linkErr := os.Link(tmpPath, target)
		if linkErr == nil {
			c.claimed[name] = struct{}{}
			return name, nil
		}
		if errors.Is(linkErr, fs.ErrExist) {
			continue
		}

		// Filesystems without hard links: re-check, then rename.
		slog.Debug("hard link unavailable, renaming", "path", target, "error", linkErr)
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		if err := os.Rename(tmpPath, target); err != nil {
			return "", err
		}
		c.claimed[name] = struct{}{}
		return name, nil
	}
}

// nextFree returns the first output name for base, starting at attempt,
// that is neither on disk nor claimed earlier in this run.
func (c *Copier) nextFree(base string, attempt int) (string, int, error) {
	for ; ; attempt++ {
		name := OutputName(base, attempt)
		if _, ok := c.claimed[name]; ok {
			continue
		}
		_, err := os.Lstat(filepath.Join(c.cfg.Dst, name))
		if err == nil {
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			return name, attempt, nil
		}
		return "", attempt, err
	}
}
