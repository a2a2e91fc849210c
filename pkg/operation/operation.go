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
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/document"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work against a single target file
type Operation interface {
	// Execute runs the operation
	Execute(ctx context.Context) error

	// Path returns the file the operation works on
	Path() string
}

// 🎮 Mode selects which operation is built for each target
type Mode string

const (
	ModeApply   Mode = "apply"   // rewrite and save
	ModeCheck   Mode = "check"   // rewrite in memory only
	ModeRestore Mode = "restore" // put the backup back
)

// 🔧 Options contains everything an operation needs
type Options struct {
	// Target is the resolved file and its rules
	Target config.ResolvedTarget

	// Root is used to print target paths relative to it
	Root string

	// Store reads and writes documents
	Store document.Store

	// Replacer applies rules to document content
	Replacer text.TextReplacer

	Backup       bool // write <path>.bak before saving
	AllowMissing bool // report mismatched rules instead of failing
	Diff         bool // print a line diff in check mode
}

// 🧱 BaseOperation holds the options shared by every operation
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation fills in defaults for opts
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Store == nil {
		opts.Store = document.NewFileStore()
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewReplacer()
	}
	return BaseOperation{Options: opts}
}

// Path returns the file the operation works on
func (op *BaseOperation) Path() string {
	return op.Target.Path
}

// 📍 displayPath returns the target path relative to Root when possible
func (op *BaseOperation) displayPath() string {
	path := op.Target.Path
	if op.Root == "" {
		return path
	}
	rel, err := filepath.Rel(op.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// 🔄 apply loads the target and runs its rules, logging each rule result
func (op *BaseOperation) apply(ctx context.Context) (*document.Document, *text.ReplacementResult, error) {
	logger := log.FromContext(ctx)

	doc, err := op.Store.Load(ctx, op.Target.Path)
	if err != nil {
		op.fail(ctx)
		return nil, nil, errors.Errorf("loading document: %w", err)
	}

	logger.StartFile(ctx, op.displayPath())

	result, err := op.Replacer.ReplaceText(ctx, bytes.NewReader(doc.Content), op.Target.Rules, text.Options{
		AllowMissing: op.AllowMissing,
	})
	if result != nil {
		for _, rr := range result.Rules {
			logger.LogRuleOperation(ctx, log.RuleOperation{Path: op.displayPath(), Result: rr})
		}
	}
	if err != nil {
		op.fail(ctx)
		return nil, nil, errors.Errorf("applying rules: %w", err)
	}

	for _, rr := range result.Failed() {
		logger.FileWarningf(op.displayPath(), "rule %q %s: want %d match(es), got %d", rr.Name, rr.Status, rr.Expected, rr.Matches)
	}

	return doc, result, nil
}

// fail records a failed file operation
func (op *BaseOperation) fail(ctx context.Context) {
	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:     op.displayPath(),
		Status:   "failed",
		Rules:    len(op.Target.Rules),
		IsFailed: true,
	})
}

// 🏗️ Build creates one operation per target for the given mode
func Build(mode Mode, targets []config.ResolvedTarget, opts Options) ([]Operation, error) {
	ops := make([]Operation, 0, len(targets))
	for _, t := range targets {
		o := opts
		o.Target = t
		switch mode {
		case ModeApply, "":
			ops = append(ops, NewRewriteOperation(o))
		case ModeCheck:
			ops = append(ops, NewCheckOperation(o))
		case ModeRestore:
			ops = append(ops, NewRestoreOperation(o))
		default:
			return nil, errors.Errorf("unknown mode %q", mode)
		}
	}
	return ops, nil
}
