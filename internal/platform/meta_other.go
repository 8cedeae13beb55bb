//go:build !unix

package platform

import (
	"fmt"
	"os"
	"time"
)

// SetMetadata applies permission bits and times through the os package.
func SetMetadata(f *os.File, mode os.FileMode, atime, mtime time.Time) error {
	if err := f.Chmod(mode.Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", f.Name(), err)
	}
	if err := os.Chtimes(f.Name(), atime, mtime); err != nil {
		return fmt.Errorf("chtimes %s: %w", f.Name(), err)
	}
	return nil
}
