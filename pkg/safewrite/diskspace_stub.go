//go:build !darwin && !freebsd && !linux && !windows

package safewrite

// checkDiskSpace is a no-op on platforms without a statfs equivalent.
func checkDiskSpace(path string, requiredBytes int64) error {
	return nil
}
