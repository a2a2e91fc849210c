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

package operation

import (
	"context"

	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 NewCheckOperation creates an operation that reports what a rewrite
// would do without writing anything
func NewCheckOperation(opts Options) Operation {
	return &checkOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🔍 checkOperation is a rewrite that stops before saving
type checkOperation struct {
	BaseOperation
}

// 🏃 Execute runs the check operation
func (op *checkOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	_, result, err := op.apply(ctx)
	if err != nil {
		return errors.Errorf("checking %s: %w", op.displayPath(), err)
	}

	fileOp := log.FileOperation{
		Path:         op.displayPath(),
		Status:       "up to date",
		Rules:        len(result.Rules),
		Replacements: result.ReplacementCount,
	}

	if result.WasModified {
		fileOp.Status = "would rewrite"
		fileOp.IsModified = true
		if op.Diff {
			logger.Diff(op.displayPath(), text.LineDiff(string(result.OriginalContent), string(result.ModifiedContent)))
		}
	}

	logger.LogFileOperation(ctx, fileOp)

	return nil
}
