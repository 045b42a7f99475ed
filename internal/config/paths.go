package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the llamarelay data directory.
// - LLAMARELAY_HOME if set
// - Windows: %APPDATA%\llamarelay
// - Other OS: ~/.llamarelay
func DataDir() string {
	if dir := os.Getenv("LLAMARELAY_HOME"); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "llamarelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".llamarelay"
	}
	return filepath.Join(home, ".llamarelay")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "llamarelay.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
