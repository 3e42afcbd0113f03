package safewrite

import "errors"

// Validation and write failures the extension distinguishes by message text,
// and callers distinguish with errors.Is. The first three strings are part of
// the wire contract with the extension and must not change.
var (
	ErrNullByte    = errors.New("path contains null byte")
	ErrTraversal   = errors.New("path contains ..")
	ErrOutsideRoot = errors.New("path is outside home directory")

	ErrTooManyDuplicates = errors.New("too many duplicate files")
	ErrInsufficientSpace = errors.New("insufficient disk space")
)
