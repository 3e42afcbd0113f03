//go:build windows

package nativehost

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// registryKeyPath returns the HKCU subkey each browser scans for native
// messaging hosts. Chrome derivatives keep their own hives; Brave reads
// Chrome's.
func registryKeyPath(browser Browser) string {
	var root string
	switch browser {
	case BrowserChrome, BrowserBrave:
		root = `Software\Google\Chrome`
	case BrowserChromium:
		root = `Software\Chromium`
	case BrowserEdge:
		root = `Software\Microsoft\Edge`
	case BrowserFirefox:
		root = `Software\Mozilla`
	default:
		return ""
	}
	return root + `\NativeMessagingHosts\` + HostName
}

// registerHost points the browser's registry key at the manifest file.
func registerHost(browser Browser, manifestPath string) error {
	keyPath := registryKeyPath(browser)
	if keyPath == "" {
		return fmt.Errorf("no registry location for browser %s", browser)
	}
	k, _, err := registry.CreateKey(registry.CURRENT_USER, keyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create registry key %s: %w", keyPath, err)
	}
	defer k.Close()
	if err := k.SetStringValue("", manifestPath); err != nil {
		return fmt.Errorf("set registry value: %w", err)
	}
	return nil
}

// unregisterHost removes the browser's registry key. A key that was never
// created is not an error.
func unregisterHost(browser Browser) error {
	keyPath := registryKeyPath(browser)
	if keyPath == "" {
		return nil
	}
	err := registry.DeleteKey(registry.CURRENT_USER, keyPath)
	if err == registry.ErrNotExist {
		return nil
	}
	return err
}
