package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// puzzleNameRegex matches built-in puzzle names and cache scopes.
var puzzleNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidatePuzzleName validates a puzzle name for safety and correctness.
// Names end up in cache keys and URL paths, so the rules are conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Lowercase letters, digits, '.', '_' and '-' only
//   - No path traversal sequences (..)
func ValidatePuzzleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "puzzle name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidName, "puzzle name too long (max 64 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "puzzle name contains invalid characters: %q", "..")
	}

	if !puzzleNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid puzzle name: %q", name)
	}

	return nil
}

// ValidateSymbol validates a piece symbol. Symbols are single printable
// ASCII characters other than the free marker.
func ValidateSymbol(symbol string, free byte) error {
	if len(symbol) != 1 {
		return New(ErrCodeInvalidPuzzle, "symbol %q must be exactly one character", symbol)
	}
	c := symbol[0]
	if c <= ' ' || c > '~' {
		return New(ErrCodeInvalidPuzzle, "symbol %q is not a printable character", symbol)
	}
	if c == free {
		return New(ErrCodeInvalidPuzzle, "symbol %q is reserved for free sites", symbol)
	}
	return nil
}

// ValidatePath validates a relative output path, such as the directory for
// rendered shape files.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
