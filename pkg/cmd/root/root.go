package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arborsmith/arbor/internal/state"
	"github.com/arborsmith/arbor/pkg/cmd/browse"
	"github.com/arborsmith/arbor/pkg/cmd/find"
	"github.com/arborsmith/arbor/pkg/cmd/ls"
	"github.com/arborsmith/arbor/pkg/cmd/vault"
)

var vaultName string

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "arbor",
		Aliases: []string{"ar"},
		Short:   "Browse and reshape a notes vault from the terminal.",
		Long: heredoc.Doc(`
			Arbor is a tree-style navigator for a single notes vault. Run it
			bare to open the browser: directories load lazily as you expand
			them, and rename, delete, cut, copy, paste and undo all happen
			in place without losing your spot in the tree.

			The vault boundary is absolute. Arbor never lists or touches
			anything above the configured vault directory.
		`),
		// Bare invocation opens the browser TUI.
		RunE: browse.NewCmdBrowse(s).RunE,
	}

	cmd.PersistentFlags().
		StringVar(
			&vaultName,
			"vault",
			"",
			"Vault to use for this invocation instead of the current one.",
		)
	viper.BindPFlag("vault", cmd.PersistentFlags().Lookup("vault"))

	cmd.AddCommand(
		browse.NewCmdBrowse(s),
		ls.NewCmdLs(s),
		find.NewCmdFind(s),
		vault.NewCmdVault(s),
	)

	return cmd, nil
}
