package safewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultMaxAttempts caps how many " (N)" suffixes Save tries before
// giving up on a name.
const DefaultMaxAttempts = 100

// Saver validates paths and writes files under a single root directory,
// never overwriting anything that already exists.
type Saver struct {
	fs          afero.Fs
	root        string
	maxAttempts int
}

// NewSaver returns a Saver writing through fs, confined to root. root is
// canonicalized here so every later containment check is a prefix
// comparison against a stable value.
func NewSaver(fs afero.Fs, root string) (*Saver, error) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	return &Saver{
		fs:          fs,
		root:        resolved,
		maxAttempts: DefaultMaxAttempts,
	}, nil
}

// SetMaxAttempts overrides the duplicate-suffix cap. Values below 1 keep
// the default.
func (s *Saver) SetMaxAttempts(n int) {
	if n >= 1 {
		s.maxAttempts = n
	}
}

// Root returns the canonical directory writes are confined to.
func (s *Saver) Root() string {
	return s.root
}

// Save validates rawPath, creates any missing parent directories and writes
// content to the first free name. It returns the path actually written,
// which differs from the requested one when a " (N)" suffix was needed.
func (s *Saver) Save(rawPath, content string) (string, error) {
	resolved, err := ValidatePath(rawPath, s.root)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(resolved)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := checkDiskSpace(dir, int64(len(content))); err != nil {
		return "", err
	}
	target, err := s.nextAvailable(resolved)
	if err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, target, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

// nextAvailable returns path itself when nothing occupies it, otherwise the
// first free candidate in the sequence "name (1).ext", "name (2).ext", …
// up to the configured cap.
func (s *Saver) nextAvailable(path string) (string, error) {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !exists {
		return path, nil
	}
	ext := filepath.Ext(path)
	if filepath.Base(path) == ext {
		// Dotfiles like ".env" count as extensionless.
		ext = ""
	}
	stem := strings.TrimSuffix(path, ext)
	for n := 1; n < s.maxAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		exists, err := afero.Exists(s.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyDuplicates, path)
}
