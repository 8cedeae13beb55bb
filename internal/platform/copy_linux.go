//go:build linux

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

// CopyFile copies with copy_file_range(2), falling back to a buffered
// read/write loop when the kernel or filesystem pair does not support it.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	preallocate(params)

	result, err := copyFileRange(params)
	if err == nil {
		return result, nil
	}
	if result.BytesWritten > 0 || !isFallbackErr(err) {
		return result, err
	}
	return CopyStream(params.Dst, params.Src)
}

func copyFileRange(params CopyFileParams) (CopyResult, error) {
	srcFd := int(params.Src.Fd())
	dstFd := int(params.Dst.Fd())

	var total int64
	for {
		n, err := unix.CopyFileRange(srcFd, nil, dstFd, nil, bufferSize, 0)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return CopyResult{BytesWritten: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			return CopyResult{BytesWritten: total, Method: CopyFileRange}, nil
		}
		total += int64(n)
	}
}

// preallocate reserves space for the destination. fallocate is advisory
// and unsupported on some filesystems, so errors are ignored.
func preallocate(params CopyFileParams) {
	if params.Size <= 0 {
		return
	}
	_ = unix.Fallocate(int(params.Dst.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, params.Size)
}

// isFallbackErr reports whether err means copy_file_range cannot serve
// this file pair at all.
func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.EPERM)
}
