package fzf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/pathutil"
	"github.com/arborsmith/arbor/internal/state"
)

func newTestFinder(t *testing.T, vault *config.Vault) (*FuzzyFinder, string) {
	t.Helper()

	root := t.TempDir()
	vault.VaultDir = root
	s := &state.State{
		Vault:    vault,
		Resolver: pathutil.NewResolver(root, false),
		Gateway:  fs.NewLocal(),
	}
	return NewFuzzyFinder(s, ""), root
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestCollectFilesSkipsHiddenAndExcluded(t *testing.T) {
	t.Parallel()

	f, root := newTestFinder(t, &config.Vault{ExcludedDirs: []string{"skipme"}})
	mustWrite(t, filepath.Join(root, "a.md"), "a")
	mustWrite(t, filepath.Join(root, ".hidden.md"), "h")
	mustWrite(t, filepath.Join(root, "docs", "b.md"), "b")
	mustWrite(t, filepath.Join(root, "skipme", "c.md"), "c")

	files, err := f.collectFiles()
	if err != nil {
		t.Fatalf("collectFiles returned error: %v", err)
	}

	want := []string{
		filepath.Join(root, "docs", "b.md"),
		filepath.Join(root, "a.md"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i, path := range want {
		if files[i] != path {
			t.Fatalf("expected %q at position %d, got %q", path, i, files[i])
		}
	}
}

func TestCollectFilesIncludesHiddenWhenConfigured(t *testing.T) {
	t.Parallel()

	f, root := newTestFinder(t, &config.Vault{ShowHidden: true})
	mustWrite(t, filepath.Join(root, ".hidden.md"), "h")

	files, err := f.collectFiles()
	if err != nil {
		t.Fatalf("collectFiles returned error: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(root, ".hidden.md") {
		t.Fatalf("expected the hidden file to be listed, got %v", files)
	}
}

func TestLabelUsesDisplayTitleForMarkdown(t *testing.T) {
	t.Parallel()

	f, root := newTestFinder(t, &config.Vault{})
	path := filepath.Join(root, "docs", "plan.md")
	mustWrite(t, path, "---\ntitle: Project Plan\n---\nbody\n")

	got := f.label(path)
	if got != "Project Plan (docs/plan.md)" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestLabelFallsBackToRelativePath(t *testing.T) {
	t.Parallel()

	f, root := newTestFinder(t, &config.Vault{})
	path := filepath.Join(root, "notes.txt")
	mustWrite(t, path, "plain")

	if got := f.label(path); got != "notes.txt" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRenderPreviewPassesThroughPlainText(t *testing.T) {
	t.Parallel()

	f, root := newTestFinder(t, &config.Vault{})
	path := filepath.Join(root, "notes.txt")
	mustWrite(t, path, "first line\nsecond line\n")
	f.files = []string{path}

	got := f.renderMarkdownPreview(0, 80, 24)
	if !strings.Contains(got, "second line") {
		t.Fatalf("expected raw content in preview, got %q", got)
	}

	if got := f.renderMarkdownPreview(-1, 80, 24); got != "" {
		t.Fatalf("expected empty preview without a selection, got %q", got)
	}
}
