package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/arborsmith/arbor/internal/state"
)

// RequireVault confirms the session carries an active vault. Vaultless
// sessions exist right after installation, before any vault has been
// registered.
func RequireVault(s *state.State) error {
	if s == nil || s.Vault == nil || s.Resolver == nil {
		return fmt.Errorf(`no vault is configured; run "arbor vault add <name> <path>" first`)
	}
	return nil
}

// ResolveVaultPath turns a command-line path argument into an absolute
// path confined to the active vault. Relative arguments are joined onto
// the vault root; anything resolving above the root is rejected rather
// than clamped.
func ResolveVaultPath(s *state.State, arg string) (string, error) {
	if err := RequireVault(s); err != nil {
		return "", err
	}

	root := s.Resolver.Root()
	if arg == "" || arg == "." {
		return root, nil
	}

	resolved := filepath.Clean(arg)
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, resolved)
	}

	if !s.Resolver.Within(resolved) {
		return "", fmt.Errorf("path %q is outside the vault %q", arg, root)
	}

	return resolved, nil
}
