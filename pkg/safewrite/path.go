package safewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath checks a caller-supplied path against the containment rules
// and returns its canonical absolute form. root must itself be canonical
// (see ResolveRoot).
//
// A path is rejected when it contains a NUL byte, when any of its segments
// is exactly "..", or when, after tilde expansion and symlink resolution,
// it does not lie under root.
func ValidatePath(raw, root string) (string, error) {
	if strings.ContainsRune(raw, 0) {
		return "", ErrNullByte
	}
	// Segment check runs on the raw path, before any expansion, so that
	// "~/../etc" and friends never reach the resolver. Backslashes are
	// treated as separators regardless of platform; names like "foo..bar"
	// are fine.
	for _, seg := range strings.Split(strings.ReplaceAll(raw, `\`, "/"), "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}
	resolved, err := Canonicalize(expandHome(raw))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", raw, err)
	}
	if resolved != root && !strings.HasPrefix(resolved, root+string(os.PathSeparator)) {
		return "", ErrOutsideRoot
	}
	return resolved, nil
}

// ResolveRoot canonicalizes the directory all writes must stay under,
// typically the user's home. Doing this once at startup keeps the
// containment comparison in ValidatePath a plain prefix check even when
// the home directory itself sits behind a symlink (macOS /home, NixOS).
func ResolveRoot(dir string) (string, error) {
	resolved, err := Canonicalize(dir)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", dir, err)
	}
	return resolved, nil
}

// Canonicalize returns path in absolute form with every symlink resolved.
// Components that do not exist yet are grafted verbatim onto the deepest
// existing ancestor, so paths about to be created validate the same way as
// existing ones.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	dir := filepath.Dir(abs)
	rest := filepath.Base(abs)
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// No existing ancestor at all, nothing left to resolve.
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// expandHome rewrites a leading "~" or "~/" to the current user's home
// directory. "~name" forms are left untouched.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
