package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/arborsmith/arbor/internal/pathutil"
)

// Vault is one navigable workspace root and its presentation settings.
type Vault struct {
	VaultDir        string   `yaml:"vaultdir"         json:"vault_dir"`
	Editor          string   `yaml:"editor"           json:"editor"`
	EditorArgs      string   `yaml:"editorargs"       json:"editor_args"`
	ShowHidden      bool     `yaml:"show_hidden"      json:"show_hidden"`
	CaseSensitivity string   `yaml:"case_sensitivity" json:"case_sensitivity"`
	ExcludedDirs    []string `yaml:"excluded_dirs"    json:"excluded_dirs"`
}

// Config is the persisted vault registry.
type Config struct {
	Vaults       map[string]*Vault `yaml:"vaults"        json:"vaults"`
	CurrentVault string            `yaml:"current_vault" json:"current_vault"`
	LogLevel     string            `yaml:"log_level"     json:"log_level"`

	active *Vault `yaml:"-"`
}

const (
	defaultVaultName = "default"
	defaultLogLevel  = "warn"
)

var defaultExcludedDirs = []string{".git", ".obsidian", "node_modules"}

var ValidCaseModes = map[string]bool{
	"auto":        true,
	"sensitive":   true,
	"insensitive": true,
}

var validEditorNames = []string{"nvim", "obsidian", "vscode", "code", "vim", "nano", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}

	return editors
}()

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 0 {
		return ""
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

func ValidateCaseMode(mode string) error {
	if mode == "" {
		return nil
	}
	if _, valid := ValidCaseModes[mode]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid case_sensitivity: %q. Please choose from 'auto', 'sensitive', or 'insensitive'",
		mode,
	)
}

// CaseInsensitive resolves the configured comparison mode, falling back
// to the platform default for "auto".
func (v *Vault) CaseInsensitive() bool {
	switch v.CaseSensitivity {
	case "sensitive":
		return false
	case "insensitive":
		return true
	default:
		return pathutil.DefaultCaseInsensitive()
	}
}

func newVault() *Vault {
	return &Vault{
		CaseSensitivity: "auto",
		ExcludedDirs:    append([]string(nil), defaultExcludedDirs...),
	}
}

func (v *Vault) ensureDefaults() {
	if v.CaseSensitivity == "" {
		v.CaseSensitivity = "auto"
	}
	if v.ExcludedDirs == nil {
		v.ExcludedDirs = append([]string(nil), defaultExcludedDirs...)
	}
}

// legacyConfig is the pre-registry single-vault layout.
type legacyConfig struct {
	VaultDir     string   `yaml:"vaultdir"`
	Editor       string   `yaml:"editor"`
	EditorArgs   string   `yaml:"editorargs"`
	ShowHidden   bool     `yaml:"show_hidden"`
	ExcludedDirs []string `yaml:"excluded_dirs"`
}

func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.Vaults = map[string]*Vault{
			defaultVaultName: newVault(),
		}
		cfg.CurrentVault = defaultVaultName
	} else {
		raw := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}

		if _, ok := raw["vaults"]; ok {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else {
			var legacy legacyConfig
			if err := yaml.Unmarshal(data, &legacy); err != nil {
				return nil, err
			}
			cfg = migrateLegacyConfig(&legacy)
		}
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	v, err := cfg.ActiveVault()
	if err != nil {
		return nil, err
	}

	if v.Editor != "" {
		if err := ValidateEditor(v.Editor); err != nil {
			return nil, err
		}
	}
	if err := ValidateCaseMode(v.CaseSensitivity); err != nil {
		return nil, err
	}

	return cfg, nil
}

func migrateLegacyConfig(legacy *legacyConfig) *Config {
	v := newVault()
	v.VaultDir = legacy.VaultDir
	v.Editor = legacy.Editor
	v.EditorArgs = legacy.EditorArgs
	v.ShowHidden = legacy.ShowHidden
	if legacy.ExcludedDirs != nil {
		v.ExcludedDirs = legacy.ExcludedDirs
	}
	v.ensureDefaults()

	return &Config{
		Vaults: map[string]*Vault{
			defaultVaultName: v,
		},
		CurrentVault: defaultVaultName,
		active:       v,
	}
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Vaults == nil {
		cfg.Vaults = make(map[string]*Vault)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.CurrentVault == "" {
		if len(cfg.Vaults) == 0 {
			cfg.Vaults[defaultVaultName] = newVault()
			cfg.CurrentVault = defaultVaultName
		} else {
			for name := range cfg.Vaults {
				cfg.CurrentVault = name
				break
			}
		}
	}

	return cfg.setActiveVault(cfg.CurrentVault)
}

func (cfg *Config) setActiveVault(name string) error {
	if name == "" {
		return fmt.Errorf("vault name cannot be empty")
	}
	v, ok := cfg.Vaults[name]
	if !ok {
		return fmt.Errorf("vault %q does not exist", name)
	}
	if v == nil {
		v = newVault()
		cfg.Vaults[name] = v
	}

	v.ensureDefaults()
	cfg.CurrentVault = name
	cfg.active = v

	cfg.syncViperWithActiveVault()

	return nil
}

func (cfg *Config) syncViperWithActiveVault() {
	if cfg.active == nil {
		return
	}

	viper.Set("vaultdir", cfg.active.VaultDir)
	viper.Set("editor", cfg.active.Editor)
	viper.Set("editorargs", cfg.active.EditorArgs)
	viper.Set("show_hidden", cfg.active.ShowHidden)
}

func (cfg *Config) ActiveVault() (*Vault, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentVault == "" {
		return nil, fmt.Errorf("no vault is currently selected")
	}

	if err := cfg.setActiveVault(cfg.CurrentVault); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) MustVault() *Vault {
	v, err := cfg.ActiveVault()
	if err != nil {
		panic(err)
	}
	return v
}

func (cfg *Config) VaultNames() []string {
	names := make([]string, 0, len(cfg.Vaults))
	for name := range cfg.Vaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SwitchVault activates the named vault and persists the choice.
func (cfg *Config) SwitchVault(name string) error {
	if err := cfg.setActiveVault(name); err != nil {
		return err
	}
	return cfg.Save()
}

// ActivateVault activates the named vault for this process only.
func (cfg *Config) ActivateVault(name string) error {
	return cfg.setActiveVault(name)
}

func (cfg *Config) AddVault(name string, v *Vault, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("vault name cannot be empty")
	}

	if cfg.Vaults == nil {
		cfg.Vaults = make(map[string]*Vault)
	}

	if _, exists := cfg.Vaults[trimmed]; exists {
		return fmt.Errorf("vault %q already exists", trimmed)
	}

	if v == nil {
		v = newVault()
	}
	v.ensureDefaults()
	cfg.Vaults[trimmed] = v

	if cfg.CurrentVault == "" || makeCurrent {
		if err := cfg.setActiveVault(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveVault(name string) error {
	if len(cfg.Vaults) <= 1 {
		return fmt.Errorf("cannot remove the last vault")
	}

	if _, exists := cfg.Vaults[name]; !exists {
		return fmt.Errorf("vault %q does not exist", name)
	}

	delete(cfg.Vaults, name)

	if cfg.CurrentVault == name {
		cfg.active = nil
		cfg.CurrentVault = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	v, err := cfg.ActiveVault()
	if err != nil {
		return err
	}

	v.Editor = editor
	return cfg.Save()
}

// ToggleHidden flips dotfile visibility for the active vault and
// persists it.
func (cfg *Config) ToggleHidden() (bool, error) {
	v, err := cfg.ActiveVault()
	if err != nil {
		return false, err
	}

	v.ShowHidden = !v.ShowHidden
	return v.ShowHidden, cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

func (cfg *Config) Save() error {
	v, err := cfg.ActiveVault()
	if err != nil {
		return err
	}

	if v.Editor != "" {
		if err := ValidateEditor(v.Editor); err != nil {
			return err
		}
	}

	cfg.syncViperWithActiveVault()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
