package cmd

import (
	"path/filepath"
	"testing"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/pathutil"
	"github.com/arborsmith/arbor/internal/state"
)

func TestResolveVaultPath(t *testing.T) {
	t.Parallel()

	vaultDir := t.TempDir()
	st := &state.State{
		Vault:    &config.Vault{VaultDir: vaultDir},
		Resolver: pathutil.NewResolver(vaultDir, false),
	}

	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"empty argument resolves to the root": {
			input: "",
			want:  vaultDir,
		},
		"dot resolves to the root": {
			input: ".",
			want:  vaultDir,
		},
		"absolute inside vault": {
			input: filepath.Join(vaultDir, "note.md"),
			want:  filepath.Join(vaultDir, "note.md"),
		},
		"relative inside vault": {
			input: "note.md",
			want:  filepath.Join(vaultDir, "note.md"),
		},
		"nested relative inside vault": {
			input: filepath.Join("docs", "plan.md"),
			want:  filepath.Join(vaultDir, "docs", "plan.md"),
		},
		"escape attempt": {
			input:   "../evil.md",
			wantErr: true,
		},
		"interior dotdot that stays inside": {
			input: filepath.Join("docs", "..", "note.md"),
			want:  filepath.Join(vaultDir, "note.md"),
		},
		"absolute outside vault": {
			input:   filepath.Join(filepath.Dir(vaultDir), "elsewhere.md"),
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ResolveVaultPath(st, tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveVaultPath returned error: %v", err)
			}
			if got != filepath.Clean(tc.want) {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRequireVault(t *testing.T) {
	t.Parallel()

	if err := RequireVault(nil); err == nil {
		t.Fatalf("expected error for nil state, got none")
	}
	if err := RequireVault(&state.State{Config: &config.Config{}}); err == nil {
		t.Fatalf("expected error for a vaultless session, got none")
	}

	vaultDir := t.TempDir()
	st := &state.State{
		Vault:    &config.Vault{VaultDir: vaultDir},
		Resolver: pathutil.NewResolver(vaultDir, false),
	}
	if err := RequireVault(st); err != nil {
		t.Fatalf("expected a configured session to pass, got %v", err)
	}
}

func TestResolveVaultPathWithoutState(t *testing.T) {
	t.Parallel()

	if _, err := ResolveVaultPath(nil, "note.md"); err == nil {
		t.Fatalf("expected error for nil state, got none")
	}
	if _, err := ResolveVaultPath(&state.State{}, "note.md"); err == nil {
		t.Fatalf("expected error for missing resolver, got none")
	}
}
