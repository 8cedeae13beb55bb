//go:build !linux

package platform

// CopyFile uses the buffered read/write loop on platforms without
// copy_file_range.
func CopyFile(params CopyFileParams) (CopyResult, error) {
	return CopyStream(params.Dst, params.Src)
}
