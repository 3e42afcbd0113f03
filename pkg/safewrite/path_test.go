package safewrite

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestValidatePath(t *testing.T) {
	root := t.TempDir()
	resolvedRoot, err := ResolveRoot(root)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}
	outside := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{
			name: "plain file under root",
			path: filepath.Join(root, "notes", "today.md"),
			want: filepath.Join(resolvedRoot, "notes", "today.md"),
		},
		{
			name: "root itself",
			path: root,
			want: resolvedRoot,
		},
		{
			name:    "null byte",
			path:    filepath.Join(root, "bad\x00name.md"),
			wantErr: ErrNullByte,
		},
		{
			name:    "dot dot segment",
			path:    root + "/../escape.md",
			wantErr: ErrTraversal,
		},
		{
			name:    "dot dot segment with backslashes",
			path:    root + `\..\escape.md`,
			wantErr: ErrTraversal,
		},
		{
			name:    "relative dot dot segments",
			path:    "a/../../b.md",
			wantErr: ErrTraversal,
		},
		{
			name: "double dots inside a name are fine",
			path: filepath.Join(root, "release..final.md"),
			want: filepath.Join(resolvedRoot, "release..final.md"),
		},
		{
			name:    "outside root",
			path:    filepath.Join(outside, "note.md"),
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "sibling with root as prefix",
			path:    root + "-evil/note.md",
			wantErr: ErrOutsideRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePath(tt.path, resolvedRoot)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidatePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidatePath(%q) failed: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ValidatePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidatePathSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	resolvedRoot, err := ResolveRoot(root)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}

	link := filepath.Join(root, "vault")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	// The path looks contained but the symlink points elsewhere.
	_, err = ValidatePath(filepath.Join(link, "note.md"), resolvedRoot)
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot through escaping symlink, got %v", err)
	}

	// A symlink that stays inside the root is fine.
	inner := filepath.Join(root, "real")
	if err := os.Mkdir(inner, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	innerLink := filepath.Join(root, "alias")
	if err := os.Symlink(inner, innerLink); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}
	got, err := ValidatePath(filepath.Join(innerLink, "note.md"), resolvedRoot)
	if err != nil {
		t.Fatalf("expected internal symlink to validate, got %v", err)
	}
	if want := filepath.Join(resolvedRoot, "real", "note.md"); got != want {
		t.Errorf("resolved path = %q, want %q", got, want)
	}
}

func TestValidatePathTildeExpansion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("expansion test relies on HOME")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	root, err := ResolveRoot(home)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}

	got, err := ValidatePath("~/notes/today.md", root)
	if err != nil {
		t.Fatalf("ValidatePath failed: %v", err)
	}
	if want := filepath.Join(root, "notes", "today.md"); got != want {
		t.Errorf("ValidatePath(~/...) = %q, want %q", got, want)
	}

	// "~name" forms are not expanded and resolve as ordinary relative
	// paths, which puts them outside the temp root.
	if _, err := ValidatePath("~alice/notes.md", root); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot for ~alice form, got %v", err)
	}

	// Expansion must not bypass the segment check.
	if _, err := ValidatePath("~/../etc/passwd", root); !errors.Is(err, ErrTraversal) {
		t.Errorf("expected ErrTraversal for ~/../, got %v", err)
	}
}

func TestCanonicalizeNonExistentSuffix(t *testing.T) {
	root := t.TempDir()
	resolvedRoot, err := ResolveRoot(root)
	if err != nil {
		t.Fatalf("ResolveRoot failed: %v", err)
	}

	got, err := Canonicalize(filepath.Join(root, "a", "b", "c.md"))
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if want := filepath.Join(resolvedRoot, "a", "b", "c.md"); got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}
