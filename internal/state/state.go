package state

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/constants"
	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/logging"
	"github.com/arborsmith/arbor/internal/pathutil"
)

// State bundles everything a command needs to operate on the active vault:
// the loaded configuration, a path resolver pinned to the vault root, the
// filesystem gateway, and the watcher feeding change events into the TUI.
type State struct {
	Config    *config.Config
	Vault     *config.Vault
	VaultName string
	Resolver  *pathutil.Resolver
	Gateway   fs.Gateway
	Home      string
	VaultDir  string
	Watcher   *VaultWatcher
}

func NewState(vaultOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if vaultOverride != "" {
		if err := cfg.ActivateVault(vaultOverride); err != nil {
			return nil, err
		}
	}

	// The active vault is validated only after any override has been
	// applied.
	if err := config.ValidateActiveVault(cfg); err != nil {
		return nil, err
	}

	v, err := cfg.ActiveVault()
	if err != nil {
		return nil, err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		OutputPath: config.LogPath(home),
	}); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	vaultDir := pathutil.NormalizePath(v.VaultDir)
	watcher, err := NewVaultWatcher(vaultDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}

	return &State{
		Config:    cfg,
		Vault:     v,
		VaultName: cfg.CurrentVault,
		Resolver:  pathutil.NewResolver(vaultDir, v.CaseInsensitive()),
		Gateway:   fs.NewLocal(),
		Home:      home,
		VaultDir:  vaultDir,
		Watcher:   watcher,
	}, nil
}

// NewVaultlessState builds a session around the loaded configuration
// only. Vault, Resolver and Watcher stay nil until a vault is
// registered, which is enough for the vault management commands.
func NewVaultlessState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		OutputPath: config.LogPath(home),
	}); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	return &State{
		Config:  cfg,
		Gateway: fs.NewLocal(),
		Home:    home,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig reads the config file under home, creating an empty one
// on first run. The result may not name a usable vault yet; callers
// that need one run config.ValidateActiveVault.
func LoadConfig(home string) (*config.Config, error) {
	// TODO: Eventually will factor out Viper entirely
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigFile(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// EditorCommand picks the editor to open vault files with: the active
// vault's configured editor, then $EDITOR, then vi.
func (s *State) EditorCommand() (command string, args []string) {
	if s != nil && s.Vault != nil {
		if editor := strings.TrimSpace(s.Vault.Editor); editor != "" {
			return editor, strings.Fields(s.Vault.EditorArgs)
		}
	}

	if env := strings.Fields(os.Getenv("EDITOR")); len(env) > 0 {
		return env[0], env[1:]
	}

	return "vi", nil
}

// Close releases resources associated with the state, including the vault
// watcher.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		s.Watcher = nil
	}
	_ = logging.Sync()

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
