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
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(async bool) *OperationRunner {
	return &OperationRunner{
		async: async,
	}
}

// 🏃 Run executes operations, stopping at the first error
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	if r.async {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync runs operations one after another
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := op.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs operations concurrently, cancelling the rest when one fails
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	logger := zerolog.Ctx(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for _, op := range ops {
		op := op
		g.Go(func() error {
			logger.Debug().Str("file", op.Path()).Msg("starting async operation")
			return op.Execute(gctx)
		})
	}

	return g.Wait()
}
