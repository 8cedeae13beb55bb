package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/bamsammich/txtcopy/internal/dirlock"
	"github.com/bamsammich/txtcopy/internal/event"
	"github.com/bamsammich/txtcopy/internal/filter"
	"github.com/bamsammich/txtcopy/internal/stats"
)

// Config describes a run.
type Config struct {
	Source      string
	Destination string
	Extensions  filter.ExtensionSet
	Exclude     *filter.Chain // optional
	DryRun      bool
	BWLimit     int64 // bytes/sec, 0 = unlimited
	// Lock serialises runs sharing a destination through dirlock.
	Lock   bool
	Events chan<- event.Event
	Stats  *stats.Collector
}

// ErrInterrupted is wrapped by Result.Err when ctx was cancelled before the
// run finished.
var ErrInterrupted = errors.New("interrupted")

// Result is the outcome of a run. Err wraps ErrDestination when the
// destination could not be prepared, or ErrInterrupted when the run was
// cancelled. Per-file failures are counted in Failed and never set Err.
type Result struct {
	Stats   stats.Snapshot
	Located int
	Copied  int
	Failed  int
	Skipped int // located but never attempted
	Err     error
}

// Run prepares the destination, locates matching files and copies them,
// strictly in that order. It blocks until complete.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	prepare := EnsureDirectory
	if cfg.DryRun {
		prepare = CheckDirectory
	}
	if err := prepare(cfg.Destination); err != nil {
		return Result{Stats: cfg.Stats.Snapshot(), Err: err}
	}
	event.Emit(cfg.Events, event.Event{
		Type:   event.DestinationReady,
		Path:   cfg.Destination,
		DryRun: cfg.DryRun,
	})

	if cfg.Lock && !cfg.DryRun {
		if release := acquireLock(ctx, cfg.Destination); release != nil {
			defer release()
		}
	}

	files := Locate(ctx, LocatorConfig{
		Root:       cfg.Source,
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		Events:     cfg.Events,
		Stats:      cfg.Stats,
	})
	if err := ctx.Err(); err != nil {
		slog.Warn("scan interrupted", "located", len(files))
		return Result{
			Stats:   cfg.Stats.Snapshot(),
			Located: len(files),
			Skipped: len(files),
			Err:     fmt.Errorf("%w: %w", ErrInterrupted, err),
		}
	}

	var limiter *rate.Limiter
	if cfg.BWLimit > 0 {
		limiter = NewBWLimiter(cfg.BWLimit)
	}

	copier := NewCopier(CopierConfig{
		Dst:     cfg.Destination,
		DryRun:  cfg.DryRun,
		Limiter: limiter,
		Events:  cfg.Events,
		Stats:   cfg.Stats,
	})
	copied, failed := copier.CopyAll(ctx, files)

	res := Result{
		Stats:   cfg.Stats.Snapshot(),
		Located: len(files),
		Copied:  copied,
		Failed:  failed,
	}
	if err := ctx.Err(); err != nil {
		res.Skipped = len(files) - copied - failed
		res.Err = fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return res
}

// acquireLock takes the destination lock. The lock is advisory, so a
// failure is logged and the run continues unlocked.
func acquireLock(ctx context.Context, dst string) func() {
	lock, err := dirlock.New(dst)
	if err != nil {
		slog.Warn("destination lock unavailable", "path", dst, "error", err)
		return nil
	}
	if ok, _ := lock.TryAcquire(); !ok {
		slog.Info("waiting for another run on the same destination", "lock", lock.Path())
		if err := lock.Acquire(ctx); err != nil {
			slog.Warn("destination lock unavailable", "path", dst, "error", err)
			return nil
		}
	}
	return func() {
		if err := lock.Release(); err != nil {
			slog.Warn("release destination lock", "error", err)
		}
	}
}
