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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
)

// 🎨 Display configuration
const (
	ruleIndent   = 4  // spaces to indent rule entries
	nameWidth    = 28 // Base width for rule name
	kindWidth    = 9  // Width for rule kind
	statusWidth  = 16 // Width for status text
	diffContext  = 3  // unchanged lines kept around each change
	summaryTitle = "rewriterc"
)

// 🎯 FileOperation represents the outcome for one target file
type FileOperation struct {
	Path         string // File path
	Status       string // Operation status (rewritten/unchanged/check/failed/restored)
	Rules        int    // Number of rules applied
	Replacements int    // Number of replacements made
	IsModified   bool   // Whether the file was (or would be) changed
	IsFailed     bool   // Whether the file could not be processed
	Backup       string // Backup path, if one was written
}

// 🔄 RuleOperation represents a single rule applied to a file
type RuleOperation struct {
	Path   string
	Result text.RuleResult
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	operations []FileOperation
	pending    map[string]*bytes.Buffer // output of started files, keyed by path
}

// 🏭 New creates a new logger that prints to console and records structured
// events on zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards
// everything if none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRuleOperation formats a rule result for display
func (l *Logger) formatRuleOperation(op RuleOperation) string {
	r := op.Result

	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch r.Status {
	case text.StatusReplaced:
		symbol = '✓'
		symbolColor = color.FgGreen
	case text.StatusAlreadyApplied:
		symbol = '•'
		symbolColor = color.FgCyan
	case text.StatusTooFew, text.StatusTooMany:
		symbol = '⟳'
		symbolColor = color.FgYellow
	default:
		symbol = '✗'
		symbolColor = color.FgRed
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", ruleIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Name),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", kindWidth, r.Kind)),
		fmt.Sprintf("%-*s", statusWidth, r.Status),
		fmt.Sprintf("%d/%d", r.Matches, r.Expected))
}

// writerFor returns the buffer held for a started file, or the console.
// Callers hold l.mu.
func (l *Logger) writerFor(path string) io.Writer {
	if buf, ok := l.pending[path]; ok {
		return buf
	}
	return l.console
}

// 📝 LogRuleOperation logs a rule result
func (l *Logger) LogRuleOperation(ctx context.Context, op RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.writerFor(op.Path), l.formatRuleOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("rule", op.Result.Name).
		Str("kind", string(op.Result.Kind)).
		Str("status", string(op.Result.Status)).
		Int("expected", op.Result.Expected).
		Int("matches", op.Result.Matches).
		Int("replacements", op.Result.Replacements).
		Msg("rule applied")
}

// 📝 StartFile starts the output block for a target file. Everything logged
// for path is held back until LogFileOperation, so files processed
// concurrently never interleave on the console.
func (l *Logger) StartFile(ctx context.Context, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		l.pending = map[string]*bytes.Buffer{}
	}
	buf := &bytes.Buffer{}
	l.pending[path] = buf

	fmt.Fprintf(buf, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(path))

	l.zlog.Debug().Str("file", path).Msg("processing file")
}

// 📝 LogFileOperation records the outcome for a file and flushes its output
// block
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	if buf, ok := l.pending[op.Path]; ok {
		delete(l.pending, op.Path)
		_, _ = buf.WriteTo(l.console)
	}

	event := l.zlog.Info()
	if op.IsFailed {
		event = l.zlog.Error()
	}
	event.
		Str("file", op.Path).
		Str("status", op.Status).
		Int("rules", op.Rules).
		Int("replacements", op.Replacements).
		Bool("is_modified", op.IsModified).
		Str("backup", op.Backup).
		Msg("file operation")
}

// 📋 Operations returns the file operations recorded so far
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}

// 📊 Summary renders a table of the recorded file operations
func (l *Logger) Summary() (string, error) {
	ops := l.Operations()

	data := pterm.TableData{{"File", "Status", "Rules", "Replacements"}}
	for _, op := range ops {
		data = append(data, []string{op.Path, op.Status, strconv.Itoa(op.Rules), strconv.Itoa(op.Replacements)})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// 📊 PrintSummary prints the summary table when more than one file was
// processed
func (l *Logger) PrintSummary() {
	if len(l.Operations()) < 2 {
		return
	}
	table, err := l.Summary()
	if err != nil {
		l.zlog.Warn().Err(err).Msg("rendering summary")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "\n%s\n", table)
}

// 📝 Diff prints a colored line diff, keeping a few lines of context
func (l *Logger) Diff(path string, lines []text.DiffLine) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.writerFor(path)
	fmt.Fprintf(w, "%s\n%s\n",
		color.New(color.FgRed).Sprint("--- "+path),
		color.New(color.FgGreen).Sprint("+++ "+path))

	for _, line := range strings.SplitAfter(text.FormatDiff(lines, diffContext), "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+ "):
			fmt.Fprint(w, color.New(color.FgGreen).Sprint(line))
		case strings.HasPrefix(line, "- "):
			fmt.Fprint(w, color.New(color.FgRed).Sprint(line))
		case line == "...\n":
			fmt.Fprint(w, color.New(color.Faint).Sprint(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	title := color.New(color.Bold, color.FgCyan).Sprint(summaryTitle)
	fmt.Fprintf(l.console, "\n%s %s\n\n", title, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Notice prints msg exactly as given, on its own line
func (l *Logger) Notice(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 FileWarning logs a warning inside the output block of path
func (l *Logger) FileWarning(path, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writerFor(path), "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Str("file", path).Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 FileWarningf logs a formatted warning inside the output block of path
func (l *Logger) FileWarningf(path, format string, args ...interface{}) {
	l.FileWarning(path, fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
