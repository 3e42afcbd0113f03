//go:build windows

package safewrite

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// checkDiskSpace verifies the volume holding path has room for
// requiredBytes more. A failed query is ignored rather than reported;
// the write itself will surface any real problem.
func checkDiskSpace(path string, requiredBytes int64) error {
	if requiredBytes <= 0 {
		return nil
	}

	dir, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil
	}

	var freeToCaller, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(dir, &freeToCaller, &total, &totalFree); err != nil {
		return nil
	}

	if freeToCaller < uint64(requiredBytes) {
		return fmt.Errorf("%w: required %d bytes, available %d bytes",
			ErrInsufficientSpace, requiredBytes, freeToCaller)
	}

	return nil
}
