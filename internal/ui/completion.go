package ui

import (
	"fmt"

	"github.com/bamsammich/txtcopy/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: done ✓  found 1,204  copied 1,203  size 14.2 MB  time 2s  errors 1
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.FilesFailed > 0 {
		icon = "✗"
	}

	return fmt.Sprintf("done %s  found %s  copied %s  size %s  time %s  errors %d",
		icon,
		FormatCount(snap.FilesLocated),
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		FormatDuration(snap.Elapsed),
		snap.FilesFailed,
	)
}
