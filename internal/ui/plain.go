package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/txtcopy/internal/stats"
)

// plainPresenter prints one line per engine event to the writer, in the
// order the engine emits them.
type plainPresenter struct {
	w       io.Writer
	stats   *stats.Collector
	srcRoot string
	s       styles
}

func newPlainPresenter(cfg Config) *plainPresenter {
	return &plainPresenter{
		w:       cfg.Writer,
		stats:   cfg.Stats,
		srcRoot: cfg.SrcRoot,
		s:       newStyles(cfg.Writer, cfg.Color),
	}
}

func (p *plainPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case DestinationReady:
		if ev.DryRun {
			fmt.Fprintf(p.w, "Destination directory (dry run): %s\n", ev.Path)
			return
		}
		fmt.Fprintf(p.w, "Destination directory ready: %s\n", ev.Path)
	case ScanStarted:
		fmt.Fprintf(p.w, "Searching for files in: %s\n", ev.Path)
		fmt.Fprintf(p.w, "Formats: %s\n", FormatList(ev.Formats))
	case SourceMissing:
		msg := fmt.Sprintf("Source directory does not exist: %s", ev.Path)
		if ev.Error != nil {
			msg += fmt.Sprintf(" (%v)", ev.Error)
		}
		fmt.Fprintln(p.w, p.s.warn.Render(msg))
		fmt.Fprintln(p.w, "Files found: 0")
	case ScanComplete:
		fmt.Fprintf(p.w, "Files found: %s\n", FormatCount(ev.Total))
	case FileCopied:
		verb := "Copied:"
		if ev.DryRun {
			verb = "Would copy:"
		}
		fmt.Fprintf(p.w, "%s %s %s %s\n",
			p.s.ok.Render(verb), StripRoot(p.srcRoot, ev.Path), p.s.dim.Render("->"), ev.Target)
	case FileFailed:
		fmt.Fprintln(p.w, p.s.err.Render(
			fmt.Sprintf("Error copying %s: %s", ev.Path, errText(ev.Error))))
	case NothingToCopy:
		fmt.Fprintln(p.w, "No files to copy")
	case CopyComplete:
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.s.label.Render("Copy results:"))
		fmt.Fprintf(p.w, "Copied: %s files\n", FormatCount(ev.Total))
		errLine := fmt.Sprintf("Errors: %s", FormatCount(ev.Failed))
		if ev.Failed > 0 {
			errLine = p.s.err.Render(errLine)
		}
		fmt.Fprintln(p.w, errLine)
		if ev.Skipped > 0 {
			fmt.Fprintln(p.w, p.s.warn.Render(
				fmt.Sprintf("Skipped: %s files (interrupted)", FormatCount(ev.Skipped))))
		}
	}
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
