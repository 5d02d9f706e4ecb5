package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"text format", Config{Level: "debug", Format: "text"}},
		{"console format", Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(t, "debug", "json")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("gate decision", "route", "protected")

			entry := decodeEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %v", entry["level"], tt.level)
			}
			if entry["msg"] != "gate decision" {
				t.Errorf("msg = %v, want %v", entry["msg"], "gate decision")
			}
			if entry["route"] != "protected" {
				t.Errorf("route = %v, want %v", entry["route"], "protected")
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newTestLogger(t, "info", "json")

	l.With("component", "issuer").Info("token issued")

	entry := decodeEntry(t, buf)
	if entry["component"] != "issuer" {
		t.Errorf("component = %v, want %v", entry["component"], "issuer")
	}
}

func useDefault(t *testing.T, l Logger) {
	t.Helper()
	prev := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })
}

func TestLogger_LevelFilteringAndSetLevel(t *testing.T) {
	l, buf := newTestLogger(t, "warn", "json")
	useDefault(t, l)

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("debug/info written at warn level: %s", buf.String())
	}

	l.Warn("warn message")
	if buf.Len() == 0 {
		t.Error("warn message should be logged")
	}

	buf.Reset()
	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	l.With("component", "gate").Debug("debug after reload")
	if buf.Len() == 0 {
		t.Error("derived logger should follow SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want %q", got, "debug")
	}
}

func TestLogger_IndependentLevels(t *testing.T) {
	server, serverBuf := newTestLogger(t, "info", "json")
	useDefault(t, server)

	cli, cliBuf := newTestLogger(t, "warn", "text")
	cli.Info("cli info")
	if cliBuf.Len() > 0 {
		t.Errorf("cli logger wrote below its level: %s", cliBuf.String())
	}

	server.Info("server info")
	if serverBuf.Len() == 0 {
		t.Error("creating another logger changed the default logger level")
	}
}

func TestSetLevel_Parsing(t *testing.T) {
	l, _ := newTestLogger(t, "info", "json")
	useDefault(t, l)

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"debug", "debug", false},
		{"INFO", "info", false},
		{"warning", "warn", false},
		{"error", "error", false},
		{"bogus", "error", true},
		{"", "info", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := SetLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got := GetLevel(); got != tt.want {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown level", Config{Level: "trace"}},
		{"unknown format", Config{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Errorf("New(%+v) error = nil", tt.cfg)
			}
		})
	}
}

func TestNew_Service(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Format: "json", Output: &buf, Service: "ltrgate-server"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("started")
	entry := decodeEntry(t, &buf)
	if entry["service"] != "ltrgate-server" {
		t.Errorf("service = %v, want %v", entry["service"], "ltrgate-server")
	}
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "Info", "warn", "warning", "ERROR"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	for _, lvl := range []string{"", "trace", "fatal"} {
		if ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = true, want false", lvl)
		}
	}
}

func TestSlog(t *testing.T) {
	l, buf := newTestLogger(t, "info", "json")

	Slog(l).Info("from slog", "secret", "hunter2")
	entry := decodeEntry(t, buf)
	if entry["secret"] != redactedValue {
		t.Errorf("secret = %v, want redacted", entry["secret"])
	}
}

func TestDefaultAndPackageFunctions(t *testing.T) {
	l, buf := newTestLogger(t, "debug", "json")
	useDefault(t, l)

	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	funcs := map[string]func(string, ...any){
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	}
	for name, fn := range funcs {
		buf.Reset()
		fn("package level")
		if buf.Len() == 0 {
			t.Errorf("%s() produced no output", name)
		}
	}
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newTestLogger(t, "info", "text")

	l.Info("server started", "addr", ":8080")

	out := buf.String()
	if !strings.Contains(out, "server started") {
		t.Errorf("text output missing message: %s", out)
	}
	if !strings.Contains(out, "addr=:8080") {
		t.Errorf("text output missing addr=:8080: %s", out)
	}
}
