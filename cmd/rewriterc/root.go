// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
)

// newRootCmd creates the root command. Running it without a subcommand is
// the same as running apply.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	rootOpts := &opts.RootOpts{
		Stdout: stdout,
		Stderr: stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Rewrite source files with verified text rules",
		Long: `rewriterc applies ordered text rules (regular expressions, literals or
element locators) to source files and writes them back in place.

Without --config it runs the built-in "dropdowns" rule set against
src/pages/MyQueue.tsx.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(rootOpts.Setup(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunApply(cmd, rootOpts)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd, rootOpts
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .json or .hcl); empty runs the dropdowns preset")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "directory target paths resolve against (default: the config file's directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.Backup, "backup", false, "write <file>.bak before rewriting")
	cmd.PersistentFlags().BoolVar(&o.AllowMissing, "allow-missing", false, "report rules that match unexpectedly instead of failing")
	cmd.PersistentFlags().BoolVar(&o.Async, "async", false, "process target files concurrently")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
		},
	}
}
