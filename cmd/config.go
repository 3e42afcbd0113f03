package cmd

const (
	// NOTE: change version from here
	VERSION = "1.2.0"
)

const DESCRIPTION = `
btlhost is the native messaging companion of the BookmarkToLearn
browser extension. The extension clips a page into Markdown; this
host does the two things a browser extension cannot: it opens the
system folder picker and writes the clipped file under the user's
home directory.
`

const (
	InstallDescription = `The install command writes the native messaging manifest
into every supported browser's configuration directory so the
browser knows where to find btlhost. Pass the extension IDs your
deployment uses, or --auto to take the packaged-in ones.

Example:
        btlhost install --chrome-extension-id abcdefghijklmnopqrstuvwxyzabcdef
        btlhost install --browser firefox --firefox-extension-id btl@bookmarktolearn.com

`
	UninstallDescription = `The uninstall command removes previously installed native
messaging manifests. Browsers that were never set up are skipped
silently.

Example:
        btlhost uninstall
        btlhost uninstall --browser chrome

`
	StatusDescription = `The status command reports, for every supported browser,
whether a native messaging manifest is currently installed and
where it lives.

Example:
        btlhost status

`
	RunDescription = `The run command services a single extension request over
stdin and stdout. Browsers invoke it through the installed
manifest; there is rarely a reason to run it by hand.

`
)
