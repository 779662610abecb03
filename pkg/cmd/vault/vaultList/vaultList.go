package vaultList

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborsmith/arbor/internal/state"
)

func NewCmdVaultList(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the configured vaults.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range s.Config.VaultNames() {
				marker := " "
				if name == s.Config.CurrentVault {
					marker = "*"
				}

				dir := ""
				if v := s.Config.Vaults[name]; v != nil {
					dir = v.VaultDir
				}

				fmt.Fprintf(out, "%s %s\t%s\n", marker, name, dir)
			}

			return nil
		},
	}

	return cmd
}
