package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks run statistics. Counters are atomic so the presenter
// goroutine can read while the engine writes.
type Collector struct {
	filesLocated atomic.Int64
	bytesLocated atomic.Int64
	filesCopied  atomic.Int64
	filesFailed  atomic.Int64
	bytesCopied  atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesLocated int64
	BytesLocated int64
	FilesCopied  int64
	FilesFailed  int64
	BytesCopied  int64
	Elapsed      time.Duration
}

// AddLocated records one located file of the given size.
func (c *Collector) AddLocated(size int64) {
	c.filesLocated.Add(1)
	c.bytesLocated.Add(size)
}

func (c *Collector) AddFilesCopied(n int64) { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64) { c.filesFailed.Add(n) }
func (c *Collector) AddBytesCopied(n int64) { c.bytesCopied.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesLocated: c.filesLocated.Load(),
		BytesLocated: c.bytesLocated.Load(),
		FilesCopied:  c.filesCopied.Load(),
		FilesFailed:  c.filesFailed.Load(),
		BytesCopied:  c.bytesCopied.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"located=%d copied=%d failed=%d bytes=%d",
		s.FilesLocated, s.FilesCopied, s.FilesFailed, s.BytesCopied,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
