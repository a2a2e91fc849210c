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

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ✏️ NewRewriteOperation creates an operation that rewrites a target in place
func NewRewriteOperation(opts Options) Operation {
	return &rewriteOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// ✏️ rewriteOperation loads a target, applies its rules and saves it
type rewriteOperation struct {
	BaseOperation
}

// 🏃 Execute runs the rewrite operation
func (op *rewriteOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	doc, result, err := op.apply(ctx)
	if err != nil {
		return errors.Errorf("rewriting %s: %w", op.displayPath(), err)
	}

	fileOp := log.FileOperation{
		Path:         op.displayPath(),
		Status:       "unchanged",
		Rules:        len(result.Rules),
		Replacements: result.ReplacementCount,
	}

	if !result.WasModified {
		logger.LogFileOperation(ctx, fileOp)
		return nil
	}

	if err := ctx.Err(); err != nil {
		op.fail(ctx)
		return errors.Errorf("rewriting %s: %w", op.displayPath(), err)
	}

	if op.Backup {
		backupPath, err := op.Store.Backup(ctx, doc)
		if err != nil {
			op.fail(ctx)
			return errors.Errorf("rewriting %s: %w", op.displayPath(), err)
		}
		fileOp.Backup = backupPath
	}

	if err := op.Store.Save(ctx, doc, result.ModifiedContent); err != nil {
		op.fail(ctx)
		return errors.Errorf("rewriting %s: saving document: %w", op.displayPath(), err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", op.Path()).
		Int("replacements", result.ReplacementCount).
		Msg("document rewritten")

	fileOp.Status = "rewritten"
	fileOp.IsModified = true
	logger.LogFileOperation(ctx, fileOp)

	return nil
}
