// Package config loads evalres settings from viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

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

	return os.ExpandEnv(path)
}

// ResolvePath expands path and, when it is relative, joins it onto base.
// An empty base leaves relative paths relative to the working directory.
func ResolvePath(base, path string) string {
	path = ExpandPath(path)
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(ExpandPath(base), path)
}
