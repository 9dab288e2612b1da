// Package config resolves where the application keeps its files.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDatabasePath is where the expense database lives unless
// database.path says otherwise.
const DefaultDatabasePath = "~/.local/share/quid/quid.db"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// DatabasePath resolves the database location. An empty configured
// value falls back to the default under the user's home.
func DatabasePath(configured string) string {
	if configured == "" {
		configured = DefaultDatabasePath
	}
	return ExpandPath(configured)
}
