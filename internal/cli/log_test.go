package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 3 nodes")

	out := buf.String()
	if !strings.Contains(out, "Rendered 3 nodes") || !strings.Contains(out, "elapsed=") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.WarnLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("attached logger not returned")
	}
}

func TestStoreLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		event   func(storeLogger)
		want    string
		wantLog bool
	}{
		{
			name:    "fallback load warns",
			level:   log.InfoLevel,
			event:   func(l storeLogger) { l.OnLoad("/tmp/farkle.xml", true, true) },
			want:    "loaded settings from fallback location",
			wantLog: true,
		},
		{
			name:    "fallback save warns",
			level:   log.InfoLevel,
			event:   func(l storeLogger) { l.OnSave("/tmp/farkle.xml", true, true, 120) },
			want:    "saved settings to fallback location",
			wantLog: true,
		},
		{
			name:    "primary save is quiet",
			level:   log.InfoLevel,
			event:   func(l storeLogger) { l.OnSave("/data/farkle.xml", false, true, 120) },
			wantLog: false,
		},
		{
			name:    "failed fallback load is debug",
			level:   log.DebugLevel,
			event:   func(l storeLogger) { l.OnLoad("/tmp/farkle.xml", true, false) },
			want:    "ok=false",
			wantLog: true,
		},
		{
			name:    "delete is debug",
			level:   log.DebugLevel,
			event:   func(l storeLogger) { l.OnDelete("/data/farkle.xml") },
			want:    "delete",
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.event(storeLogger{newLogger(&buf, tt.level)})
			out := buf.String()
			if got := out != ""; got != tt.wantLog {
				t.Fatalf("logged = %v, want %v: %q", got, tt.wantLog, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
		})
	}
}

func TestEngineLogger(t *testing.T) {
	var buf bytes.Buffer
	l := engineLogger{newLogger(&buf, log.DebugLevel)}

	l.OnSerializeStart("Settings")
	l.OnSerializeComplete("Settings", 12, 1, 3*time.Millisecond, nil)
	l.OnDeserializeComplete("Settings", 4, time.Millisecond, errors.New(errors.ErrCodeUnknownType, "unknown type Widget"))

	out := buf.String()
	for _, want := range []string{"serialize", "nodes=12", "refs=1", "deserialize failed", "unknown type Widget"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
