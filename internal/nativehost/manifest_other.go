//go:build !windows

package nativehost

// Browsers on macOS and Linux discover manifests purely by file location,
// so registration beyond writing the file is a no-op.

func registerHost(browser Browser, manifestPath string) error {
	return nil
}

func unregisterHost(browser Browser) error {
	return nil
}
