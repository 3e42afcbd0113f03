// Package picker opens the operating system's folder selection dialog and
// reports which directory the user chose. Each platform shells out to (or
// talks D-Bus with) whatever that desktop offers natively; there is no
// in-process GUI.
package picker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds how long the dialog may stay open before the host
// gives up and reports a timeout to the extension.
const DefaultTimeout = 120 * time.Second

// DefaultPrompt is the dialog title when the caller does not set one.
const DefaultPrompt = "选择 Markdown 保存文件夹"

// Dialog outcomes the host distinguishes in its reply.
var (
	ErrCancelled = errors.New("folder selection cancelled")
	ErrTimeout   = errors.New("folder selection timed out")
)

// Selection is the directory the user chose.
type Selection struct {
	// Path is the absolute directory path, without a trailing slash.
	Path string
	// Name is the final path element, handy for display in the extension.
	Name string
}

// Dialog configures the native folder chooser.
type Dialog struct {
	// Prompt is the title shown on the dialog; DefaultPrompt when empty.
	Prompt string
	// Timeout bounds how long the dialog stays open; DefaultTimeout when
	// zero or negative.
	Timeout time.Duration
}

// Pick opens the folder dialog and blocks until the user chooses a
// directory, dismisses the dialog (ErrCancelled), or the timeout passes
// (ErrTimeout).
func (d *Dialog) Pick(ctx context.Context) (*Selection, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := d.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	raw, err := pickFolder(ctx, prompt)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return newSelection(raw), nil
}

// newSelection normalizes raw dialog output. Trailing slashes go away so
// the extension can append file names directly.
func newSelection(raw string) *Selection {
	path := strings.TrimRight(strings.TrimSpace(raw), "/")
	if path == "" {
		return &Selection{}
	}
	return &Selection{
		Path: path,
		Name: filepath.Base(path),
	}
}
