package picker

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestNewSelection verifies dialog output normalization
func TestNewSelection(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPath string
		wantName string
	}{
		{
			name:     "plain path",
			raw:      "/Users/li/Notes",
			wantPath: "/Users/li/Notes",
			wantName: "Notes",
		},
		{
			name:     "trailing slash trimmed",
			raw:      "/home/li/notes/",
			wantPath: "/home/li/notes",
			wantName: "notes",
		},
		{
			name:     "repeated trailing slashes trimmed",
			raw:      "/home/li/notes///",
			wantPath: "/home/li/notes",
			wantName: "notes",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "\n /home/li/文档 \n",
			wantPath: "/home/li/文档",
			wantName: "文档",
		},
		{
			name: "empty output",
			raw:  "",
		},
		{
			name: "whitespace-only output",
			raw:  "  \n\t",
		},
		{
			name: "bare root collapses to empty",
			raw:  "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := newSelection(tt.raw)
			if sel.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", sel.Path, tt.wantPath)
			}
			if sel.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", sel.Name, tt.wantName)
			}
		})
	}
}

// TestDialogPickTimeout verifies an expired deadline surfaces as
// ErrTimeout whichever backend is behind pickFolder
func TestDialogPickTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Minute))
	defer cancel()

	d := &Dialog{Timeout: time.Minute}
	_, err := d.Pick(ctx)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Pick() error = %v, want ErrTimeout", err)
	}
}

// TestDialogDefaults verifies zero-value dialogs fall back to the
// package defaults rather than a zero timeout
func TestDialogDefaults(t *testing.T) {
	if DefaultTimeout <= 0 {
		t.Error("DefaultTimeout must be positive")
	}
	if DefaultPrompt == "" {
		t.Error("DefaultPrompt must not be empty")
	}
}
