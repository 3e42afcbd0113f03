package nativehost

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// HostName is the native messaging host identifier. It must match the
// manifest file name and the name the extension passes to
// chrome.runtime.sendNativeMessage.
const HostName = "com.btl.file_writer"

// manifestDescription appears in the installed manifests.
const manifestDescription = "BookmarkToLearn Markdown file writer"

// Browser represents a browser with a native messaging manifest location.
type Browser string

const (
	BrowserChrome   Browser = "chrome"
	BrowserFirefox  Browser = "firefox"
	BrowserChromium Browser = "chromium"
	BrowserEdge     Browser = "edge"
	BrowserBrave    Browser = "brave"
)

// SupportedBrowsers returns all browsers btlhost can register with.
func SupportedBrowsers() []Browser {
	return []Browser{BrowserChrome, BrowserFirefox, BrowserChromium, BrowserEdge, BrowserBrave}
}

// ChromeManifest represents a Chrome/Chromium native messaging host manifest.
type ChromeManifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// FirefoxManifest represents a Firefox native messaging host manifest.
type FirefoxManifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// GenerateChromeManifest creates a Chrome/Chromium native messaging manifest.
func GenerateChromeManifest(hostPath, extensionID string) []byte {
	m := ChromeManifest{
		Name:           HostName,
		Description:    manifestDescription,
		Path:           hostPath,
		Type:           "stdio",
		AllowedOrigins: []string{"chrome-extension://" + extensionID + "/"},
	}
	b, _ := json.MarshalIndent(m, "", "  ")
	return b
}

// GenerateFirefoxManifest creates a Firefox native messaging manifest.
func GenerateFirefoxManifest(hostPath, extensionID string) []byte {
	m := FirefoxManifest{
		Name:              HostName,
		Description:       manifestDescription,
		Path:              hostPath,
		Type:              "stdio",
		AllowedExtensions: []string{extensionID},
	}
	b, _ := json.MarshalIndent(m, "", "  ")
	return b
}

// ManifestPath returns where browser expects the manifest on this machine,
// or "" when the platform/browser combination is unsupported. On Windows
// the file can live anywhere; the registry points the browser at it (see
// registerHost), and this path is merely where btlhost keeps it.
func ManifestPath(browser Browser, homeDir string) string {
	return manifestPath(browser, runtime.GOOS, homeDir)
}

func manifestPath(browser Browser, platform, homeDir string) string {
	manifestFile := HostName + ".json"

	switch platform {
	case "darwin":
		appSupport := filepath.Join(homeDir, "Library", "Application Support")
		switch browser {
		case BrowserChrome:
			return filepath.Join(appSupport, "Google", "Chrome", "NativeMessagingHosts", manifestFile)
		case BrowserChromium:
			return filepath.Join(appSupport, "Chromium", "NativeMessagingHosts", manifestFile)
		case BrowserFirefox:
			return filepath.Join(appSupport, "Mozilla", "NativeMessagingHosts", manifestFile)
		case BrowserEdge:
			return filepath.Join(appSupport, "Microsoft Edge", "NativeMessagingHosts", manifestFile)
		case BrowserBrave:
			return filepath.Join(appSupport, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", manifestFile)
		}
	case "linux":
		switch browser {
		case BrowserChrome:
			return filepath.Join(homeDir, ".config", "google-chrome", "NativeMessagingHosts", manifestFile)
		case BrowserChromium:
			return filepath.Join(homeDir, ".config", "chromium", "NativeMessagingHosts", manifestFile)
		case BrowserFirefox:
			return filepath.Join(homeDir, ".mozilla", "native-messaging-hosts", manifestFile)
		case BrowserEdge:
			return filepath.Join(homeDir, ".config", "microsoft-edge", "NativeMessagingHosts", manifestFile)
		case BrowserBrave:
			return filepath.Join(homeDir, ".config", "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", manifestFile)
		}
	case "windows":
		return filepath.Join(homeDir, "AppData", "Local", string(browser), "NativeMessagingHosts", manifestFile)
	}
	return ""
}

// ManifestInstaller writes, inspects and removes native messaging
// manifests for the supported browsers.
type ManifestInstaller struct {
	// Fs is the filesystem manifests are written through; the real OS
	// filesystem when nil. Tests substitute an in-memory one.
	Fs afero.Fs

	HostPath           string
	ChromeExtensionID  string
	FirefoxExtensionID string

	// BaseDir overrides the real home directory; for testing.
	BaseDir string
}

// Validate checks that all fields required for installation are set.
func (m *ManifestInstaller) Validate() error {
	if m.HostPath == "" {
		return errors.New("host path is required")
	}
	if m.ChromeExtensionID == "" && m.FirefoxExtensionID == "" {
		return errors.New("an extension ID is required")
	}
	return nil
}

func (m *ManifestInstaller) fs() afero.Fs {
	if m.Fs != nil {
		return m.Fs
	}
	return afero.NewOsFs()
}

func (m *ManifestInstaller) homeDir() string {
	if m.BaseDir != "" {
		return m.BaseDir
	}
	home, _ := os.UserHomeDir()
	return home
}

// InstallChrome installs a manifest for a Chrome-family browser and, on
// Windows, points the browser's registry key at it.
func (m *ManifestInstaller) InstallChrome(browser Browser) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	if m.ChromeExtensionID == "" {
		return "", errors.New("chrome extension ID is required")
	}
	manifest := GenerateChromeManifest(m.HostPath, m.ChromeExtensionID)
	return m.install(browser, manifest)
}

// InstallFirefox installs a manifest for Firefox and, on Windows, points
// Firefox's registry key at it.
func (m *ManifestInstaller) InstallFirefox() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	if m.FirefoxExtensionID == "" {
		return "", errors.New("firefox extension ID is required")
	}
	manifest := GenerateFirefoxManifest(m.HostPath, m.FirefoxExtensionID)
	return m.install(BrowserFirefox, manifest)
}

func (m *ManifestInstaller) install(browser Browser, manifest []byte) (string, error) {
	path := ManifestPath(browser, m.homeDir())
	if path == "" {
		return "", fmt.Errorf("unsupported browser/platform: %s/%s", browser, runtime.GOOS)
	}

	if err := m.fs().MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := afero.WriteFile(m.fs(), path, manifest, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := registerHost(browser, path); err != nil {
		return "", fmt.Errorf("failed to register host: %w", err)
	}
	return path, nil
}

// Uninstall removes the manifest for browser along with its registry key
// on Windows. A manifest that was never installed is not an error.
func (m *ManifestInstaller) Uninstall(browser Browser) (string, error) {
	path := ManifestPath(browser, m.homeDir())
	if path == "" {
		return "", fmt.Errorf("unsupported browser/platform: %s/%s", browser, runtime.GOOS)
	}

	exists, err := afero.Exists(m.fs(), path)
	if err != nil {
		return "", err
	}
	if exists {
		if err := m.fs().Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove manifest: %w", err)
		}
	}
	if err := unregisterHost(browser); err != nil {
		return "", fmt.Errorf("failed to unregister host: %w", err)
	}
	return path, nil
}

// Installed reports whether a manifest for browser is present, and where.
func (m *ManifestInstaller) Installed(browser Browser) (string, bool) {
	path := ManifestPath(browser, m.homeDir())
	if path == "" {
		return "", false
	}
	exists, err := afero.Exists(m.fs(), path)
	return path, err == nil && exists
}
