package cmd

import (
	"fmt"
	"os"

	"github.com/bookmarktolearn/btlhost/internal/nativehost"
	"github.com/urfave/cli"
)

var installFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser",
		Usage: "browser to install for (chrome, firefox, chromium, edge, brave, all)",
		Value: "all",
	},
	cli.StringFlag{
		Name:  "chrome-extension-id",
		Usage: "Chrome extension ID (required for Chrome-family browsers)",
	},
	cli.StringFlag{
		Name:  "firefox-extension-id",
		Usage: "Firefox extension ID (required for Firefox)",
	},
	cli.BoolFlag{
		Name:  "auto",
		Usage: "use the packaged-in extension IDs (for package manager hooks)",
	},
}

func install(c *cli.Context) error {
	chromeID := c.String("chrome-extension-id")
	firefoxID := c.String("firefox-extension-id")
	browser := c.String("browser")

	if c.Bool("auto") {
		if !nativehost.HasOfficialExtensions() {
			return cli.NewExitError("--auto needs official extension IDs packaged into this build", 1)
		}
		if chromeID == "" {
			chromeID = nativehost.OfficialChromeExtensionID
		}
		if firefoxID == "" {
			firefoxID = nativehost.OfficialFirefoxExtensionID
		}
	}

	if chromeID == "" && firefoxID == "" {
		return cli.NewExitError("at least one extension ID is required (--chrome-extension-id or --firefox-extension-id)", 1)
	}

	hostPath, err := os.Executable()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("failed to get executable path: %v", err), 1)
	}

	installer := &nativehost.ManifestInstaller{
		HostPath:           hostPath,
		ChromeExtensionID:  chromeID,
		FirefoxExtensionID: firefoxID,
	}

	installed := []string{}
	errors := []string{}

	installChrome := func(b nativehost.Browser) {
		if chromeID == "" {
			return
		}
		path, err := installer.InstallChrome(b)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", b, err))
		} else {
			installed = append(installed, fmt.Sprintf("%s: %s", b, path))
		}
	}

	installFirefox := func() {
		if firefoxID == "" {
			return
		}
		path, err := installer.InstallFirefox()
		if err != nil {
			errors = append(errors, fmt.Sprintf("firefox: %v", err))
		} else {
			installed = append(installed, fmt.Sprintf("firefox: %s", path))
		}
	}

	switch browser {
	case "all":
		installChrome(nativehost.BrowserChrome)
		installChrome(nativehost.BrowserChromium)
		installChrome(nativehost.BrowserEdge)
		installChrome(nativehost.BrowserBrave)
		installFirefox()
	case "chrome":
		installChrome(nativehost.BrowserChrome)
	case "chromium":
		installChrome(nativehost.BrowserChromium)
	case "edge":
		installChrome(nativehost.BrowserEdge)
	case "brave":
		installChrome(nativehost.BrowserBrave)
	case "firefox":
		installFirefox()
	default:
		return cli.NewExitError(fmt.Sprintf("unknown browser: %s", browser), 1)
	}

	if len(installed) > 0 {
		fmt.Println("Installed manifests:")
		for _, m := range installed {
			fmt.Printf("  %s\n", m)
		}
	}

	if len(errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
		if len(installed) == 0 {
			return cli.NewExitError("installation failed", 1)
		}
	}

	return nil
}
