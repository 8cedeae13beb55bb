//go:build darwin

package platform

import (
	"os"
	"syscall"
	"time"
)

// AccessTime returns the access time recorded in info, or the modification
// time when the platform stat is unavailable.
func AccessTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	}
	return info.ModTime()
}
