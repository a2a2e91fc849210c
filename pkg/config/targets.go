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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNoTargets is returned when a target glob matches no files
var ErrNoTargets = errors.Base("no files match target")

// 🎯 ResolvedTarget is a concrete file and every rule that applies to it
type ResolvedTarget struct {
	Path  string
	Rules []text.ReplacementRule
}

// 🗂️ ResolveTargets expands target globs against root and merges targets
// that name the same file, keeping rule order. Each file appears once, so
// resolved targets can be processed concurrently.
func (cfg *Config) ResolveTargets(ctx context.Context, root string) ([]ResolvedTarget, error) {
	logger := zerolog.Ctx(ctx)

	var resolved []ResolvedTarget
	index := map[string]int{}

	for _, t := range cfg.Targets {
		paths, err := expandPath(root, t.Path)
		if err != nil {
			return nil, errors.Errorf("expanding target %s: %w", t.Path, err)
		}

		for _, p := range paths {
			logger.Debug().Str("target", t.Path).Str("file", p).Msg("resolved target")
			if i, ok := index[p]; ok {
				resolved[i].Rules = append(resolved[i].Rules, t.TextRules()...)
				continue
			}
			index[p] = len(resolved)
			resolved = append(resolved, ResolvedTarget{Path: p, Rules: t.TextRules()})
		}
	}

	return resolved, nil
}

// expandPath returns the files a target path names. Paths without glob
// syntax are returned as-is, whether or not they exist.
func expandPath(root, pattern string) ([]string, error) {
	if !isGlob(pattern) {
		if filepath.IsAbs(pattern) {
			return []string{filepath.Clean(pattern)}, nil
		}
		return []string{filepath.Join(root, pattern)}, nil
	}

	base := root
	if filepath.IsAbs(pattern) {
		base, pattern = doublestar.SplitPattern(filepath.ToSlash(pattern))
	}
	if base == "" {
		base = "."
	}

	matches, err := doublestar.Glob(os.DirFS(base), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("matching %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("%s: %w", pattern, ErrNoTargets)
	}

	sort.Strings(matches)
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(base, filepath.FromSlash(m)))
	}
	return paths, nil
}

func isGlob(p string) bool {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
