package app

import (
	"os"
	"path/filepath"
)

// Paths holds the resolved on-disk layout under the illuminator home
type Paths struct {
	Home    string // ~/.illuminator
	Archive string // ~/.illuminator/archive

	// Key files
	Settings string // ~/.illuminator/settings.yaml
	Database string // ~/.illuminator/illuminator.db
}

// ResolvePaths returns all paths based on the ILLUMINATOR_HOME
// environment variable, falling back to ~/.illuminator
func ResolvePaths() Paths {
	home := os.Getenv("ILLUMINATOR_HOME")
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".illuminator")
		} else {
			home = ".illuminator"
		}
	}

	return Paths{
		Home:     home,
		Archive:  filepath.Join(home, "archive"),
		Settings: filepath.Join(home, "settings.yaml"),
		Database: filepath.Join(home, "illuminator.db"),
	}
}

var cachedPaths *Paths

// GetPaths is a convenience function that returns singleton paths
func GetPaths() Paths {
	if cachedPaths == nil {
		paths := ResolvePaths()
		cachedPaths = &paths
	}
	return *cachedPaths
}
