package utils

import (
	"os"
	"path/filepath"
)

// GetBallotHome resolves the node home directory: explicit value, BALLOTHOME, then $HOME/.ballot
func GetBallotHome(home string) string {
	if home != "" {
		return home
	}

	if home := os.Getenv("BALLOTHOME"); home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".ballot"))
}

// GetBallotConfigPath returns config file path, <home>/config/config.toml by default
func GetBallotConfigPath(home, config string) string {
	if config != "" {
		return config
	}

	return filepath.Join(GetBallotHome(home), "config", "config.toml")
}
