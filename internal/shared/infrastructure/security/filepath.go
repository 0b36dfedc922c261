// Package security validates user-supplied file locations.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never valid in a store path.
const forbiddenChars = ";&|$`(){}<>!\n\r"

// ErrIsDirectory is returned when a file path names an existing directory.
var ErrIsDirectory = errors.New("path is a directory")

// ValidateFilePath cleans path, makes it absolute and resolves symlinks
// when the file already exists. A leading ~ expands to the home directory.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("file path cannot be empty")
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("file path contains forbidden character %q: %s", path[i], path)
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	clean, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return clean, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ValidateDatabasePath validates path like ValidateFilePath and rejects
// existing directories, so a database file can be created or opened there.
func ValidateDatabasePath(path string) (string, error) {
	clean, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(clean)
	if err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, clean)
	}
	return clean, nil
}
