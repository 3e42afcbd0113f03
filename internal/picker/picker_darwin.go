//go:build darwin

package picker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// pickFolder drives the system folder chooser through AppleScript and
// returns the selected POSIX path.
func pickFolder(ctx context.Context, prompt string) (string, error) {
	script := fmt.Sprintf("POSIX path of (choose folder with prompt %q)", prompt)
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// osascript exits non-zero when the user hits Cancel.
			return "", ErrCancelled
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
