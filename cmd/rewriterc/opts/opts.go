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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// RootOpts holds the persistent flags and shared dependencies for commands
type RootOpts struct {
	// Flags
	ConfigFile   string
	Root         string
	Debug        bool
	Backup       bool
	AllowMissing bool
	Async        bool

	// Output
	Stdout io.Writer
	Stderr io.Writer

	// Console is set up by Setup
	Console *log.Logger
}

// Setup configures zerolog and the console logger from the flags and
// returns a context carrying both
func (o *RootOpts) Setup(ctx context.Context) context.Context {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	// the console shows progress, structured events only when debugging
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr}).Level(level).With().Timestamp().Logger()

	o.Console = log.New(o.Stdout, zlog)

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, o.Console)
}

// LoadConfig loads the config file, or the default preset when none is set
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Request builds an operation request for mode from the flags
func (o *RootOpts) Request(cfg *config.Config, mode operation.Mode) operation.Request {
	return operation.Request{
		Config:       cfg,
		Mode:         mode,
		Root:         o.Root,
		Backup:       o.Backup,
		AllowMissing: o.AllowMissing,
		Async:        o.Async,
	}
}
