package vault

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arborsmith/arbor/internal/state"
	"github.com/arborsmith/arbor/pkg/cmd/vault/vaultAdd"
	"github.com/arborsmith/arbor/pkg/cmd/vault/vaultList"
)

func NewCmdVault(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vault [name]",
		Aliases: []string{"v"},
		Short:   "Switch the active vault.",
		Long: heredoc.Doc(`
			Switches which vault arbor operates on and persists the
			choice. With a name argument the switch is immediate;
			without one an interactive picker lists the configured
			vaults.
		`),
		Example: heredoc.Doc(`
			arbor vault
			arbor vault scratch
			arbor vault list
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return switchTo(cmd, s, args[0])
			}

			return pick(cmd, s)
		},
	}

	cmd.AddCommand(vaultAdd.NewCmdVaultAdd(s))
	cmd.AddCommand(vaultList.NewCmdVaultList(s))

	return cmd
}

func pick(cmd *cobra.Command, s *state.State) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("picking a vault needs an interactive terminal")
	}

	names := s.Config.VaultNames()
	if len(names) == 0 {
		return fmt.Errorf("no vaults are configured")
	}

	sel := selection.New("Which vault?", names)
	sel.Filter = nil

	choice, err := sel.RunPrompt()
	if err != nil {
		return err
	}

	return switchTo(cmd, s, choice)
}

func switchTo(cmd *cobra.Command, s *state.State, name string) error {
	if err := s.Config.SwitchVault(name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Current vault is now %q\n", name)

	return nil
}
