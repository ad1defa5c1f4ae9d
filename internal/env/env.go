package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	TRASH_CONFIG_PATH string

	TRASH_LOG_PATH string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	if TRASH_CONFIG_PATH = os.Getenv("TRASH_CONFIG_PATH"); TRASH_CONFIG_PATH == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			configDir = filepath.Join(homeDir, defaultXDGConfigDirname)
		}
		TRASH_CONFIG_PATH = filepath.Join(configDir, "trashbin", "config.yaml")
	}

	if TRASH_LOG_PATH = os.Getenv("TRASH_LOG_PATH"); TRASH_LOG_PATH == "" {
		TRASH_LOG_PATH = filepath.Join(DataHome(), "trashbin", "debug.log")
	}
}

// DataHome returns $XDG_DATA_HOME, falling back to the spec default
// $HOME/.local/share when unset. The home trash root lives under it.
func DataHome() string {
	if dataDir := os.Getenv("XDG_DATA_HOME"); dataDir != "" {
		return dataDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(homeDir, defaultXDGDataDirname)
}
