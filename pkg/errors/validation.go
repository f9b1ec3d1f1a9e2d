package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateElementName validates a name read from or written to a document
// element or attribute.
//
// The rules follow the XML Name production restricted to what the engine emits:
//   - No empty names
//   - First character is a letter or '_'
//   - Remaining characters are letters, digits, '_', '-' or '.'
//   - Not exactly "xml" or "xmlns", which XML parsers treat specially
//
// Longer names with an "xml" prefix, such as XMLPath, are accepted.
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "element name cannot be empty")
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) && first != '_' {
		return New(ErrCodeInvalidName, "element name must start with a letter or underscore: %q", name)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return New(ErrCodeInvalidName, "element name contains invalid character %q: %q", r, name)
		}
	}

	if name == "xml" || name == "xmlns" {
		return New(ErrCodeInvalidName, "element name %q is reserved by XML", name)
	}

	return nil
}

// ValidatePath validates a store file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// goPackagePathRegex matches valid Go package import paths.
var goPackagePathRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._~/-]*$`)

// ValidatePackagePath validates a Go package import path used as a catalog
// default package.
func ValidatePackagePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidName, "package path cannot be empty")
	}

	if len(path) > 256 {
		return New(ErrCodeInvalidName, "package path too long (max 256 characters)")
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..", // Parent directory
		"//", // Double slash
		"\\", // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidName, "package path contains invalid characters: %q", pattern)
		}
	}

	if strings.HasSuffix(path, "/") || !goPackagePathRegex.MatchString(path) {
		return New(ErrCodeInvalidName, "invalid Go package path: %q", path)
	}

	return nil
}
