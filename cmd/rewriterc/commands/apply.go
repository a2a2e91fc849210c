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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/operation"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite target files in place",
		Long: `Apply rewrites every target file named by the config.
It will:
1. Load each target file
2. Apply the rules in order, checking each matches as expected
3. Back up the original if --backup is set
4. Save the result and print the success message`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunApply(cmd, opts)
		},
	}

	return cmd
}

// RunApply runs the apply command, it is also the root command's default
func RunApply(cmd *cobra.Command, opts *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := opts.LoadConfig(ctx)
	if err != nil {
		return err
	}

	return operation.Run(ctx, opts.Request(cfg, operation.ModeApply))
}
