//go:build windows

package picker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// pickFolder opens the Windows Forms folder browser through PowerShell.
// Cancel leaves stdout empty with a zero exit, so empty output maps to
// ErrCancelled.
func pickFolder(ctx context.Context, prompt string) (string, error) {
	script := fmt.Sprintf(
		"Add-Type -AssemblyName System.Windows.Forms; "+
			"$d = New-Object System.Windows.Forms.FolderBrowserDialog; "+
			"$d.Description = '%s'; "+
			"if ($d.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) { Write-Output $d.SelectedPath }",
		strings.ReplaceAll(prompt, "'", "''"))

	out, err := exec.CommandContext(ctx,
		"powershell", "-NoProfile", "-WindowStyle", "Hidden", "-Command", script).Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("powershell: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
