package browse

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arborsmith/arbor/internal/state"
	"github.com/arborsmith/arbor/internal/tui/browser"
	cmdpkg "github.com/arborsmith/arbor/pkg/cmd"
)

func NewCmdBrowse(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"b"},
		Short:   "Open the vault tree browser.",
		Long: heredoc.Doc(`
			Opens the interactive tree browser over the current vault.
			The root directory is listed up front; everything below it
			loads on demand as you expand directories.
		`),
		Example: heredoc.Doc(`
			arbor browse
			arbor b
			arbor browse --vault scratch
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(s)
		},
	}

	return cmd
}

func run(s *state.State) error {
	if err := cmdpkg.RequireVault(s); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("the browser needs an interactive terminal")
	}

	return browser.Run(s)
}
