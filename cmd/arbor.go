/*
Copyright © 2025 The Arbor Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arborsmith/arbor/internal/config"
	"github.com/arborsmith/arbor/internal/state"
	"github.com/arborsmith/arbor/pkg/cmd/root"
)

// Execute assembles the session state and runs the root command.
//
// A fresh installation has a config file but no vault yet. That case
// falls back to a vaultless session so the vault management commands
// can register one; everything else keeps the hard failure.
func Execute() {
	s, err := state.NewState(vaultOverride(os.Args[1:]))
	if err != nil {
		var initErr *config.ConfigInitError
		if !errors.As(err, &initErr) {
			fmt.Fprintf(os.Stderr, "arbor: %v\n", err)
			os.Exit(1)
		}
		if s, err = state.NewVaultlessState(); err != nil {
			fmt.Fprintf(os.Stderr, "arbor: %v\n", err)
			os.Exit(1)
		}
	}

	rootCmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arbor: %v\n", err)
		os.Exit(1)
	}

	execErr := rootCmd.Execute()
	if closeErr := s.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "arbor: %v\n", closeErr)
	}
	if execErr != nil {
		os.Exit(1)
	}
}

// vaultOverride scans the raw arguments for --vault ahead of cobra,
// because the chosen vault decides which root the state loads.
func vaultOverride(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		if arg == "--vault" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if strings.HasPrefix(arg, "--vault=") {
			return strings.TrimPrefix(arg, "--vault=")
		}
	}

	return ""
}
