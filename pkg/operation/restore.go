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
	"gitlab.com/tozd/go/errors"
)

// ♻️ NewRestoreOperation creates an operation that restores a target from
// its backup
func NewRestoreOperation(opts Options) Operation {
	return &restoreOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

type restoreOperation struct {
	BaseOperation
}

// 🏃 Execute runs the restore operation
func (op *restoreOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	if err := op.Store.Restore(ctx, op.Path()); err != nil {
		op.fail(ctx)
		return errors.Errorf("restoring %s: %w", op.displayPath(), err)
	}

	logger.LogFileOperation(ctx, log.FileOperation{
		Path:       op.displayPath(),
		Status:     "restored",
		Rules:      len(op.Target.Rules),
		IsModified: true,
	})

	return nil
}
