package vaultAdd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/state"
)

func NewCmdVaultAdd(s *state.State) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "add [name] [path]",
		Short: "Register an existing directory as a vault.",
		Long: heredoc.Doc(`
			Registers a directory under a vault name. The directory must
			already exist; arbor never creates or reshapes anything
			outside a vault boundary.
		`),
		Example: heredoc.Doc(`
			arbor vault add scratch ~/notes-scratch
			arbor vault add work ~/work/notes --use
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args[0], args[1], use)
		},
	}

	cmd.Flags().
		BoolVar(&use, "use", false, "Make the new vault the current one.")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, name, dir string, use bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("vault directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	v := &config.Vault{VaultDir: abs}
	if err := s.Config.AddVault(name, v, use); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Vault %q added at %s\n", name, abs)

	return nil
}
