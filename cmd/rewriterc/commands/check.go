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

// NewCheckCmd creates the check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	var diff bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what apply would change without writing",
		Long: `Check runs every rule against the target files in memory.
It will:
1. Load each target file
2. Apply the rules and verify their match counts
3. Print a line diff of the change if --diff is set
It never writes to disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return err
			}

			req := opts.Request(cfg, operation.ModeCheck)
			req.Diff = diff
			return operation.Run(ctx, req)
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "print a line diff of each change")

	return cmd
}
