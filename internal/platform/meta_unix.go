//go:build unix

package platform

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// SetMetadata applies permission bits and access/modification times to an
// open destination file.
func SetMetadata(f *os.File, mode os.FileMode, atime, mtime time.Time) error {
	if err := unix.Fchmod(int(f.Fd()), unixMode(mode)); err != nil {
		return fmt.Errorf("fchmod %s: %w", f.Name(), err)
	}
	times := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, f.Name(), times, 0); err != nil {
		return fmt.Errorf("utimensat %s: %w", f.Name(), err)
	}
	return nil
}

func unixMode(mode os.FileMode) uint32 {
	m := uint32(mode.Perm())
	if mode&os.ModeSetuid != 0 {
		m |= unix.S_ISUID
	}
	if mode&os.ModeSetgid != 0 {
		m |= unix.S_ISGID
	}
	if mode&os.ModeSticky != 0 {
		m |= unix.S_ISVTX
	}
	return m
}
