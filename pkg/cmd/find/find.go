package find

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arborsmith/arbor/internal/fzf"
	"github.com/arborsmith/arbor/internal/state"
	cmdpkg "github.com/arborsmith/arbor/pkg/cmd"
)

func NewCmdFind(s *state.State) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:     "find [query]",
		Aliases: []string{"f"},
		Short:   "Fuzzy-find a vault file and open it.",
		Long: heredoc.Doc(`
			Runs a fuzzy finder over every file in the vault, with a
			rendered preview of the highlighted entry. Markdown files are
			listed under their display title. Selecting a file opens it
			in the configured editor; --print writes the selected path
			to stdout instead.
		`),
		Example: heredoc.Doc(`
			arbor find
			arbor find standup
			arbor f --print
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdpkg.RequireVault(s); err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("the finder needs an interactive terminal")
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			return run(cmd, s, query, printOnly)
		},
	}

	cmd.Flags().
		BoolVarP(&printOnly, "print", "p", false, "Print the selected path instead of opening it.")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, query string, printOnly bool) error {
	finder := fzf.NewFuzzyFinder(s, "Select file to open.")

	path, err := finder.RunWithQuery(query, !printOnly)
	if errors.Is(err, fzf.ErrNoSelection) {
		return nil
	}
	if err != nil {
		return err
	}

	if printOnly {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	return nil
}
