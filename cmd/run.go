package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/bookmarktolearn/btlhost/cmd/common"
	"github.com/bookmarktolearn/btlhost/internal/nativehost"
	"github.com/bookmarktolearn/btlhost/internal/picker"
	"github.com/bookmarktolearn/btlhost/pkg/logger"
	"github.com/bookmarktolearn/btlhost/pkg/safewrite"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:   "debug",
		EnvVar: "BTLHOST_DEBUG",
		Usage:  "copy diagnostics into a debug log file",
	},
	// Chromium on Windows appends --parent-window=<HWND> when launching
	// the host; registering it keeps flag parsing quiet.
	cli.IntFlag{
		Name:   "parent-window",
		Hidden: true,
	},
}

// newRunLogger builds the host's logger. Stdout carries protocol frames,
// so diagnostics go to stderr; debug mode copies them into a file under
// the user cache directory.
func newRunLogger(debug bool) logger.Logger {
	base := logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
	if !debug {
		return base
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		base.Warning("debug log disabled: %v", err)
		return base
	}
	path := filepath.Join(cacheDir, "btlhost", "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		base.Warning("debug log disabled: %v", err)
		return base
	}
	fileLog, err := logger.NewFileLogger(path)
	if err != nil {
		base.Warning("debug log disabled: %v", err)
		return base
	}
	return logger.NewMultiLogger(base, fileLog)
}

func run(c *cli.Context) error {
	lg := newRunLogger(c.Bool("debug"))
	defer lg.Close()

	home, err := os.UserHomeDir()
	if err != nil {
		common.PrintRuntimeErr(c, "run", "home", err)
		return cli.NewExitError("cannot determine home directory", 1)
	}
	saver, err := safewrite.NewSaver(afero.NewOsFs(), home)
	if err != nil {
		common.PrintRuntimeErr(c, "run", "saver", err)
		return cli.NewExitError("cannot resolve home directory", 1)
	}

	host := nativehost.NewHost(saver, &picker.Dialog{}, lg, VERSION)
	if err := host.Run(context.Background()); err != nil {
		common.PrintRuntimeErr(c, "run", "host", err)
		return cli.NewExitError("native host error", 1)
	}
	return nil
}
