// Package cli implements the stowage command-line interface.
//
// The CLI opens a session on the Farkle settings file, prints or edits the
// stored preferences and high scores, and exposes the raw document for
// inspection. It is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - show: Print the settings and the high score table
//   - set: Change one setting
//   - score add / score list: Record and browse high scores
//   - dump: Print the stored document as XML or JSON
//   - graph: Draw the stored document as DOT or SVG
//   - path, reset: Locate or delete the stored files
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/stowage/config.toml, then STOWAGE_*
// environment variables, then flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/stowage/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond.
func (p *progress) done(msg string) {
	p.logger.Info(msg, "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// storeLogger reports file store activity. Falling back to the temp
// directory is worth a warning; everything else is debug output.
type storeLogger struct {
	logger *log.Logger
}

func (l storeLogger) OnLoad(path string, fallback, ok bool) {
	if ok && fallback {
		l.logger.Warn("loaded settings from fallback location", "path", path)
		return
	}
	l.logger.Debug("load", "path", path, "ok", ok)
}

func (l storeLogger) OnSave(path string, fallback, ok bool, size int) {
	if ok && fallback {
		l.logger.Warn("saved settings to fallback location", "path", path)
		return
	}
	l.logger.Debug("save", "path", path, "ok", ok, "bytes", size)
}

func (l storeLogger) OnDelete(path string) {
	l.logger.Debug("delete", "path", path)
}

// engineLogger reports serializer timings at debug level.
type engineLogger struct {
	logger *log.Logger
}

func (engineLogger) OnSerializeStart(string) {}

func (l engineLogger) OnSerializeComplete(typeName string, nodes, refs int, d time.Duration, err error) {
	if err != nil {
		l.logger.Debug("serialize failed", "type", typeName, "err", err)
		return
	}
	l.logger.Debug("serialize", "type", typeName, "nodes", nodes, "refs", refs, "took", d)
}

func (engineLogger) OnDeserializeStart(string, int) {}

func (l engineLogger) OnDeserializeComplete(root string, objects int, d time.Duration, err error) {
	if err != nil {
		l.logger.Debug("deserialize failed", "root", root, "err", err)
		return
	}
	l.logger.Debug("deserialize", "root", root, "objects", objects, "took", d)
}
