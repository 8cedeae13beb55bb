package ui

import "github.com/bamsammich/txtcopy/internal/event"

// Event is re-exported so presenters read naturally.
type Event = event.Event

// Re-export event types for convenience.
const (
	DestinationReady = event.DestinationReady
	ScanStarted      = event.ScanStarted
	SourceMissing    = event.SourceMissing
	ScanComplete     = event.ScanComplete
	FileCopied       = event.FileCopied
	FileFailed       = event.FileFailed
	NothingToCopy    = event.NothingToCopy
	CopyComplete     = event.CopyComplete
)
