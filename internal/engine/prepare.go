package engine

import (
	"errors"
	"fmt"
	"os"
)

// ErrDestination marks the one fatal condition of a run: the destination
// directory cannot be created or is not a directory.
var ErrDestination = errors.New("cannot prepare destination directory")

// EnsureDirectory creates path and any missing parents. It succeeds without
// change when path is already a directory.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDestination, path, err)
	}
	return nil
}

// CheckDirectory verifies that EnsureDirectory would succeed without
// creating anything. It is used for dry runs.
func CheckDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w %s: not a directory", ErrDestination, path)
	case err == nil, errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("%w %s: %w", ErrDestination, path, err)
	}
}
