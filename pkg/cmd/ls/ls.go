package ls

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/arborsmith/arbor/internal/state"
	cmdpkg "github.com/arborsmith/arbor/pkg/cmd"
)

func NewCmdLs(s *state.State) *cobra.Command {
	var showHidden bool

	cmd := &cobra.Command{
		Use:     "ls [path]",
		Aliases: []string{"list"},
		Short:   "List one directory level of the vault.",
		Long: heredoc.Doc(`
			Prints a single directory level, sorted the way the browser
			shows it: directories first, then files, without case.
			The path argument is taken relative to the vault root and
			may not leave it.
		`),
		Example: heredoc.Doc(`
			arbor ls
			arbor ls docs
			arbor ls docs/projects --hidden
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			target, err := cmdpkg.ResolveVaultPath(s, arg)
			if err != nil {
				return err
			}

			return run(cmd, s, target, showHidden, cmd.Flags().Changed("hidden"))
		},
	}

	cmd.Flags().
		BoolVar(&showHidden, "hidden", false, "Include dotfiles in the listing.")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, target string, showHidden, hiddenSet bool) error {
	entries, err := s.Gateway.ListDir(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", target, err)
	}

	// The vault setting is only a default; an explicit flag wins either
	// way, so --hidden=false still suppresses dotfiles.
	if !hiddenSet && s.Vault != nil && s.Vault.ShowHidden {
		showHidden = true
	}

	excluded := make(map[string]struct{})
	if s.Vault != nil {
		for _, name := range s.Vault.ExcludedDirs {
			excluded[name] = struct{}{}
		}
	}

	out := cmd.OutOrStdout()
	for _, entry := range entries {
		if !showHidden && strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if entry.IsDir {
			if _, skip := excluded[entry.Name]; skip {
				continue
			}
			fmt.Fprintln(out, entry.Name+"/")
			continue
		}
		fmt.Fprintln(out, entry.Name)
	}

	return nil
}
