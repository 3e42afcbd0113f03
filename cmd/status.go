package cmd

import (
	"fmt"

	"github.com/bookmarktolearn/btlhost/internal/nativehost"
	"github.com/urfave/cli"
)

func displayName(b nativehost.Browser) string {
	switch b {
	case nativehost.BrowserChrome:
		return "Chrome"
	case nativehost.BrowserChromium:
		return "Chromium"
	case nativehost.BrowserFirefox:
		return "Firefox"
	case nativehost.BrowserEdge:
		return "Edge"
	case nativehost.BrowserBrave:
		return "Brave"
	}
	return string(b)
}

func status(c *cli.Context) error {
	installer := &nativehost.ManifestInstaller{}

	fmt.Println("Native Messaging Host Status")
	fmt.Println("============================")
	fmt.Printf("Host Name: %s\n\n", nativehost.HostName)

	for _, b := range nativehost.SupportedBrowsers() {
		if path, ok := installer.Installed(b); ok {
			fmt.Printf("%s: Installed\n", displayName(b))
			fmt.Printf("  Path: %s\n", path)
		} else {
			fmt.Printf("%s: Not installed\n", displayName(b))
		}
	}

	return nil
}
