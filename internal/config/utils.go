package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arborsmith/arbor/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// LogPath returns the session log file location under the config home.
func LogPath(homeDir string) string {
	return filepath.Join(homeDir, constants.ConfigDir, constants.LogFile)
}

// EnsureConfigFile creates the config directory and an empty config
// file when they are missing. It performs no validation.
func EnsureConfigFile(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	return nil
}

// ValidateActiveVault confirms the configuration names a current vault
// whose directory is set. A fresh, never-configured installation fails
// this check with a ConfigInitError.
func ValidateActiveVault(cfg *Config) error {
	if cfg.CurrentVault == "" {
		return &ConfigInitError{msg: "no current vault is configured"}
	}

	v, err := cfg.ActiveVault()
	if err != nil {
		return err
	}

	if strings.TrimSpace(v.VaultDir) == "" {
		return &ConfigInitError{
			msg: fmt.Sprintf("required config variable %q is not set", "VaultDir"),
		}
	}

	return nil
}
