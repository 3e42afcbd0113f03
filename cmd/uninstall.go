package cmd

import (
	"fmt"

	"github.com/bookmarktolearn/btlhost/internal/nativehost"
	"github.com/urfave/cli"
)

var uninstallFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser",
		Usage: "browser to uninstall from (chrome, firefox, chromium, edge, brave, all)",
		Value: "all",
	},
}

func uninstall(c *cli.Context) error {
	browser := c.String("browser")

	installer := &nativehost.ManifestInstaller{}

	removed := []string{}
	errors := []string{}

	uninstallBrowser := func(b nativehost.Browser) {
		if _, err := installer.Uninstall(b); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", b, err))
		} else {
			removed = append(removed, fmt.Sprintf("%s: removed (or was not installed)", b))
		}
	}

	switch browser {
	case "all":
		for _, b := range nativehost.SupportedBrowsers() {
			uninstallBrowser(b)
		}
	case "chrome":
		uninstallBrowser(nativehost.BrowserChrome)
	case "chromium":
		uninstallBrowser(nativehost.BrowserChromium)
	case "edge":
		uninstallBrowser(nativehost.BrowserEdge)
	case "brave":
		uninstallBrowser(nativehost.BrowserBrave)
	case "firefox":
		uninstallBrowser(nativehost.BrowserFirefox)
	default:
		return cli.NewExitError(fmt.Sprintf("unknown browser: %s", browser), 1)
	}

	if len(removed) > 0 {
		fmt.Println("Uninstalled manifests:")
		for _, m := range removed {
			fmt.Printf("  %s\n", m)
		}
	}

	if len(errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range errors {
			fmt.Printf("  %s\n", e)
		}
	}

	return nil
}
