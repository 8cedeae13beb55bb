package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	DestinationReady Type = iota + 1
	ScanStarted
	SourceMissing
	ScanComplete
	FileCopied
	FileFailed
	NothingToCopy
	CopyComplete
)

var typeNames = [...]string{
	DestinationReady: "DestinationReady",
	ScanStarted:      "ScanStarted",
	SourceMissing:    "SourceMissing",
	ScanComplete:     "ScanComplete",
	FileCopied:       "FileCopied",
	FileFailed:       "FileFailed",
	NothingToCopy:    "NothingToCopy",
	CopyComplete:     "CopyComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string   // source path, or the directory for Destination/Scan events
	Target    string   // destination file name (FileCopied)
	Formats   []string // extension set (ScanStarted)
	Size      int64
	Total     int64 // located files (ScanComplete), copied files (CopyComplete)
	Failed    int64 // failed files (CopyComplete)
	Skipped   int64 // files not attempted after an interrupt (CopyComplete)
	DryRun    bool
	Error     error
}

// Emit sends ev on ch, stamping the time. A nil channel discards the event.
func Emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ch <- ev
}
