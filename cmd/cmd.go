package cmd

import (
	"fmt"
	"runtime"

	"github.com/bookmarktolearn/btlhost/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	if bArgs.Version == "" {
		bArgs.Version = VERSION
	}
	app := cli.App{
		Name:                  "btlhost",
		HelpName:              "btlhost",
		Usage:                 "BookmarkToLearn native messaging host.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "btlhost <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "run",
				Usage:              "service one extension request over stdin/stdout",
				Description:        RunDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             run,
				Flags:              runFlags,
				// Browsers launch the host themselves; keep it out of help.
				Hidden: true,
			},
			{
				Name:               "install",
				Aliases:            []string{"i"},
				Usage:              "install native messaging manifests for browsers",
				Action:             install,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        InstallDescription,
				Flags:              installFlags,
			},
			{
				Name:               "uninstall",
				Aliases:            []string{"u"},
				Usage:              "remove native messaging manifests from browsers",
				Action:             uninstall,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        UninstallDescription,
				Flags:              uninstallFlags,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "show manifest installation status for all browsers",
				Action:             status,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        StatusDescription,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of btlhost",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		// Browsers invoke the bare binary with the extension origin as an
		// argument, so the default action is the host loop itself.
		Action:      run,
		Flags:       runFlags,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
