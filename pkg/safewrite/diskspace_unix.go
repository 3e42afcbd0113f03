//go:build darwin || freebsd || linux

package safewrite

import (
	"fmt"
	"syscall"
)

// checkDiskSpace verifies the filesystem holding path has room for
// requiredBytes more. A failed statfs is ignored rather than reported;
// the write itself will surface any real problem.
func checkDiskSpace(path string, requiredBytes int64) error {
	if requiredBytes <= 0 {
		return nil
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil
	}

	// Bavail is what an unprivileged caller may actually use.
	availableBytes := int64(stat.Bavail) * int64(stat.Bsize)

	if availableBytes < requiredBytes {
		return fmt.Errorf("%w: required %d bytes, available %d bytes",
			ErrInsufficientSpace, requiredBytes, availableBytes)
	}

	return nil
}
