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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/document"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📋 Request describes one invocation against a rule set. The boolean
// switches are combined with the ones set in Config.
type Request struct {
	Config *config.Config
	Mode   Mode

	// Root is the directory target paths resolve against. Empty means the
	// config file's directory, or the working directory for presets.
	Root string

	Diff         bool
	Backup       bool
	AllowMissing bool
	Async        bool

	// Store and Replacer default to the file store and the rule engine
	Store    document.Store
	Replacer text.TextReplacer
}

// 🚀 Run resolves the request's targets, runs one operation per target and
// prints the outcome
func Run(ctx context.Context, req Request) error {
	if req.Config == nil {
		return errors.Errorf("config is required")
	}

	logger := log.FromContext(ctx)
	cfg := req.Config

	root := req.Root
	if root == "" {
		root = cfg.Dir()
	}
	if root == "" {
		root = "."
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", cfg.String()).
		Str("mode", string(req.Mode)).
		Str("root", root).
		Msg("running")

	targets, err := cfg.ResolveTargets(ctx, root)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	ops, err := Build(req.Mode, targets, Options{
		Root:         root,
		Store:        req.Store,
		Replacer:     req.Replacer,
		Backup:       req.Backup || cfg.Backup,
		AllowMissing: req.AllowMissing || cfg.AllowMissing,
		Diff:         req.Diff,
	})
	if err != nil {
		return err
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeApply
	}
	logger.Header(fmt.Sprintf("%s %s", mode, cfg))

	err = NewRunner(req.Async || cfg.Async).Run(ctx, ops...)
	logger.PrintSummary()
	if err != nil {
		return err
	}

	switch req.Mode {
	case ModeCheck:
		pending := 0
		for _, op := range logger.Operations() {
			if op.IsModified {
				pending++
			}
		}
		if pending == 0 {
			logger.Success("all files are up to date")
		} else {
			logger.Infof("%d file(s) would be rewritten", pending)
		}
	case ModeRestore:
		logger.Successf("restored %d file(s)", len(ops))
	default:
		logger.Notice(SuccessMessage(cfg, len(ops)))
	}

	return nil
}

// 💬 SuccessMessage returns the notice printed after a successful rewrite
func SuccessMessage(cfg *config.Config, files int) string {
	if cfg.Message != "" {
		return cfg.Message
	}
	return fmt.Sprintf("Rewrote %d file(s) successfully!", files)
}
