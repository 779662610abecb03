package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arborsmith/arbor/internal/config"
)

func TestNewStateOnFreshHomeReportsInitError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := NewState("")
	if err == nil {
		t.Fatalf("expected an error for an unconfigured home")
	}

	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected a ConfigInitError, got %v", err)
	}
}

func TestNewVaultlessStateCarriesConfigOnly(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewVaultlessState()
	if err != nil {
		t.Fatalf("NewVaultlessState returned error: %v", err)
	}

	if s.Config == nil {
		t.Fatalf("expected a loaded config")
	}
	if s.Vault != nil || s.Resolver != nil || s.Watcher != nil {
		t.Fatalf("expected no vault wiring, got %+v", s)
	}
	if _, err := os.Stat(config.GetConfigPath(home)); err != nil {
		t.Fatalf("expected the config file to be created: %v", err)
	}
}

func TestEditorCommandPrefersVaultEditor(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	s := &State{Vault: &config.Vault{Editor: "nvim", EditorArgs: "-f --clean"}}
	command, args := s.EditorCommand()

	if command != "nvim" {
		t.Fatalf("expected nvim, got %q", command)
	}
	if got := strings.Join(args, " "); got != "-f --clean" {
		t.Fatalf("expected editor args %q, got %q", "-f --clean", got)
	}
}

func TestEditorCommandFallsBackToEnv(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")

	s := &State{Vault: &config.Vault{}}
	command, args := s.EditorCommand()

	if command != "code" {
		t.Fatalf("expected code, got %q", command)
	}
	if got := strings.Join(args, " "); got != "--wait" {
		t.Fatalf("expected editor args %q, got %q", "--wait", got)
	}
}

func TestEditorCommandDefaultsToVi(t *testing.T) {
	t.Setenv("EDITOR", "")

	s := &State{Vault: &config.Vault{}}
	command, args := s.EditorCommand()

	if command != "vi" {
		t.Fatalf("expected vi, got %q", command)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestNewVaultWatcherRejectsEmptyDir(t *testing.T) {
	t.Parallel()

	if _, err := NewVaultWatcher(""); err == nil {
		t.Fatalf("expected an error for an empty vault directory")
	}
}

func TestVaultWatcherReportsVaultRelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	w, err := NewVaultWatcher(dir)
	if err != nil {
		t.Fatalf("NewVaultWatcher returned error: %v", err)
	}
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Start()() }()

	if err := os.WriteFile(filepath.Join(sub, "note.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	select {
	case msg := <-msgs:
		changed, ok := msg.(VaultChangedMsg)
		if !ok {
			t.Fatalf("expected VaultChangedMsg, got %T", msg)
		}
		if changed.Path != "sub/note.md" {
			t.Fatalf("expected vault-relative path %q, got %q", "sub/note.md", changed.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for a change event")
	}
}

func TestVaultWatcherCloseUnblocksStart(t *testing.T) {
	t.Parallel()

	w, err := NewVaultWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewVaultWatcher returned error: %v", err)
	}

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Start()() }()

	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	select {
	case msg := <-msgs:
		if msg != nil {
			t.Fatalf("expected a nil message after close, got %T", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for Start to unblock")
	}
}
