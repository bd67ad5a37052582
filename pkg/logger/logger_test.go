package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFilteringAndPrintln(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, false)
	defer Configure(os.Stdout, false)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	buf.Reset()
	Println("hello")
	if strings.Contains(buf.String(), "hello") {
		t.Fatalf("Println should be suppressed at warn level")
	}

	Init("info")
	buf.Reset()
	Println("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("Println expected at info level, got: %q", buf.String())
	}
}

func TestEntriesAreJSONWithLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, false)
	defer Configure(os.Stdout, false)
	Init("info")

	Infof("agent %s created", "a1")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" {
		t.Fatalf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "agent a1 created" {
		t.Fatalf("message = %v", entry["message"])
	}
}

func TestWithTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, false)
	defer Configure(os.Stdout, false)
	Init("info")

	lg := With("cascade")
	lg.Debug().Msg("hidden")
	lg.Info().Str("agentId", "a1").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("component logger should honour the global level: %q", out)
	}
	if !strings.Contains(out, `"component":"cascade"`) || !strings.Contains(out, `"agentId":"a1"`) {
		t.Fatalf("missing structured fields: %q", out)
	}
}

func TestComponentLoggerFollowsLaterConfigure(t *testing.T) {
	lg := With("startup")

	var buf bytes.Buffer
	Configure(&buf, false)
	defer Configure(os.Stdout, false)
	Init("warn")
	defer Init("info")

	lg.Info().Msg("quiet")
	lg.Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info event should be dropped after Init(warn): %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, `"component":"startup"`) {
		t.Fatalf("component logger did not follow Configure: %q", out)
	}
}
