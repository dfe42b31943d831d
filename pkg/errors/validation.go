package errors

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ConfigExtensions lists the file extensions LoadConfig understands.
var ConfigExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// ValidateConfigPath validates a generation config path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be one of ConfigExtensions
func ValidateConfigPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "config path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "config path too long (max 500 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "config path contains invalid control characters")
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(ConfigExtensions, ext) {
		return New(ErrCodeInvalidPath, "unsupported config extension %q (want one of %s)",
			ext, strings.Join(ConfigExtensions, ", "))
	}
	return nil
}

// ParseSeed parses a seed given as decimal or 0x-prefixed hexadecimal.
func ParseSeed(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidSeed, "seed cannot be empty")
	}
	seed, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidSeed, err, "invalid seed %q", s)
	}
	return seed, nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive)
// and returns it lower-cased.
func ValidateFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if !slices.Contains(allowed, f) {
		return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(allowed, ", "))
	}
	return f, nil
}
