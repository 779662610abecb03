package ls

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/fs"
	"github.com/arborsmith/arbor/internal/pathutil"
	"github.com/arborsmith/arbor/internal/state"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()

	root := t.TempDir()

	return &state.State{
		Vault: &config.Vault{
			VaultDir:     root,
			ExcludedDirs: []string{".git", "node_modules"},
		},
		Resolver: pathutil.NewResolver(root, false),
		Gateway:  fs.NewLocal(),
		VaultDir: root,
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()

	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestLsPrintsDirsFirstWithMarkers(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	root := s.VaultDir
	mustWrite(t, filepath.Join(root, "beta.md"))
	mustWrite(t, filepath.Join(root, "alpha.md"))
	mustMkdir(t, filepath.Join(root, "docs"))
	mustMkdir(t, filepath.Join(root, "node_modules"))
	mustWrite(t, filepath.Join(root, ".secret"))

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	want := "docs/\nalpha.md\nbeta.md\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestLsHiddenFlagIncludesDotfiles(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	root := s.VaultDir
	mustWrite(t, filepath.Join(root, ".secret"))
	mustWrite(t, filepath.Join(root, "note.md"))

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--hidden"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	want := ".secret\nnote.md\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestLsVaultShowHiddenIsDefaultOnly(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	s.Vault.ShowHidden = true
	root := s.VaultDir
	mustWrite(t, filepath.Join(root, ".secret"))
	mustWrite(t, filepath.Join(root, "note.md"))

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	want := ".secret\nnote.md\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestLsExplicitFlagOverridesVaultShowHidden(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	s.Vault.ShowHidden = true
	root := s.VaultDir
	mustWrite(t, filepath.Join(root, ".secret"))
	mustWrite(t, filepath.Join(root, "note.md"))

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--hidden=false"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	if out.String() != "note.md\n" {
		t.Fatalf("expected %q, got %q", "note.md\n", out.String())
	}
}

func TestLsListsSubdirectoryArgument(t *testing.T) {
	t.Parallel()

	s := newTestState(t)
	root := s.VaultDir
	mustMkdir(t, filepath.Join(root, "docs"))
	mustWrite(t, filepath.Join(root, "docs", "plan.md"))

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"docs"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute returned error: %v", err)
	}

	if out.String() != "plan.md\n" {
		t.Fatalf("expected %q, got %q", "plan.md\n", out.String())
	}
}

func TestLsRejectsPathOutsideVault(t *testing.T) {
	t.Parallel()

	s := newTestState(t)

	cmd := NewCmdLs(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"../elsewhere"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected boundary error, got none")
	}
}
