package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/txtcopy/internal/stats"
)

// quietPresenter drops informational output and reports only per-file
// failures, on the error writer.
type quietPresenter struct {
	errW  io.Writer
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *quietPresenter) handleEvent(ev Event) {
	if ev.Type != FileFailed || p.errW == nil {
		return
	}
	fmt.Fprintf(p.errW, "Error copying %s: %s\n", ev.Path, errText(ev.Error))
}

func (p *quietPresenter) Summary() string {
	return ""
}
