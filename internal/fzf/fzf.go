// Package fzf provides fuzzy selection over every file in the vault,
// with a rendered markdown preview and optional editor handoff.
package fzf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/logging"
	"github.com/arborsmith/arbor/internal/note"
	"github.com/arborsmith/arbor/internal/pathutil"
	"github.com/arborsmith/arbor/internal/state"
)

// ErrNoSelection marks an aborted pick.
var ErrNoSelection = errors.New("no file selected")

// FuzzyFinder encapsulates the fuzzy finder functionality.
type FuzzyFinder struct {
	state  *state.State
	Header string
	files  []string
	labels []string
}

func NewFuzzyFinder(s *state.State, header string) *FuzzyFinder {
	return &FuzzyFinder{state: s, Header: header}
}

// Run lets the user pick a file from the vault. With execute set the
// selection is opened in the configured editor; either way the chosen
// path is returned.
func (f *FuzzyFinder) Run(execute bool) (string, error) {
	return f.RunWithQuery("", execute)
}

// RunWithQuery behaves like Run with the finder's query pre-filled.
func (f *FuzzyFinder) RunWithQuery(query string, execute bool) (string, error) {
	idx, err := f.find(query)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrNoSelection
		}
		return "", err
	}

	selected := f.files[idx]
	if !execute {
		return selected, nil
	}
	return selected, f.open(selected)
}

func (f *FuzzyFinder) find(query string) (int, error) {
	files, err := f.collectFiles()
	if err != nil {
		return -1, fmt.Errorf("error listing files: %w", err)
	}
	if len(files) == 0 {
		return -1, fmt.Errorf("vault has no files")
	}

	f.files = files
	f.labels = make([]string, len(files))
	for i, path := range files {
		f.labels[i] = f.label(path)
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	return fuzzyfinder.Find(f.files, func(i int) string {
		return f.labels[i]
	}, options...)
}

// collectFiles walks the vault through the gateway, honoring the
// vault's hidden and excluded directory settings. Unreadable
// directories are skipped rather than sinking the whole walk.
func (f *FuzzyFinder) collectFiles() ([]string, error) {
	showHidden := f.state.Vault != nil && f.state.Vault.ShowHidden
	excluded := make(map[string]struct{})
	if f.state.Vault != nil {
		for _, name := range f.state.Vault.ExcludedDirs {
			excluded[name] = struct{}{}
		}
	}

	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := f.state.Gateway.ListDir(context.Background(), dir)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				logging.L().Warn("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
				return nil
			}
			return err
		}

		for _, e := range entries {
			if !showHidden && strings.HasPrefix(e.Name, ".") {
				continue
			}
			if e.IsDir {
				if _, skip := excluded[e.Name]; skip {
					continue
				}
				if err := walk(e.Path); err != nil {
					return err
				}
				continue
			}
			out = append(out, e.Path)
		}
		return nil
	}

	if err := walk(f.state.Resolver.Root()); err != nil {
		return nil, err
	}
	return out, nil
}

// label is the row shown in the finder: the note's display title for
// markdown, plus the vault-relative path so duplicates stay apart.
func (f *FuzzyFinder) label(path string) string {
	rel, err := pathutil.VaultRelative(f.state.Resolver.Root(), path)
	if err != nil {
		rel = filepath.Base(path)
	}

	if strings.EqualFold(filepath.Ext(path), ".md") {
		if content, err := f.state.Gateway.ReadFile(context.Background(), path); err == nil {
			if title := note.DisplayTitle(filepath.Base(path), content); title != "" {
				return fmt.Sprintf("%s (%s)", title, rel)
			}
		}
	}
	return rel
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	content, err := f.state.Gateway.ReadFile(context.Background(), f.files[i])
	if err != nil {
		return "Error reading file"
	}

	if !strings.EqualFold(filepath.Ext(f.files[i]), ".md") {
		return string(content)
	}

	width := w
	if width <= 0 {
		width = 100
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}

// open runs the configured editor on path and waits for it to exit.
func (f *FuzzyFinder) open(path string) error {
	command, args := f.state.EditorCommand()

	cmd := exec.Command(command, append(args, path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s exited with an error: %w", command, err)
	}
	return nil
}
