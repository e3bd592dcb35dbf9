package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateID validates a theme, barrier or resource identifier.
//
// The rules are intentionally conservative because IDs end up in SVG
// element ids and cache keys:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDataset, "id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidDataset, "id too long (max 128 characters): %q", id[:32]+"...")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDataset, "id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidDataset, "id %q contains markup characters", id)
	}

	return nil
}

// ValidateOutputPath validates an export destination.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory
func ValidateOutputPath(path string) error {
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

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path must name a file: %q", path)
	}

	base := filepath.Base(path)
	if base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "path must name a file: %q", path)
	}

	return nil
}
