/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{" info ", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"loud", WarnLevel},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input, WarnLevel); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestLoggerInitialization(t *testing.T) {
	var buf bytes.Buffer
	err := Initialize(Config{Level: InfoLevel, Component: "test", Output: &buf})
	if err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if defaultLogger == nil {
		t.Fatal("Initialize() did not set defaultLogger")
	}
	if defaultLogger.config.Component != "test" {
		t.Errorf("Initialize() did not set config correctly, got component: %s", defaultLogger.config.Component)
	}

	Info("routed")
	if !strings.Contains(buf.String(), "routed") {
		t.Errorf("Initialize() did not honour Config.Output: %q", buf.String())
	}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{
		config: Config{Level: InfoLevel, Component: "test", DryRun: true},
		logger: log.New(&buf, "", 0),
	}

	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "test message",
		Component: "test",
		Fields:    map[string]interface{}{"path": "package.json", "action": "updated"},
	}

	result := logger.formatPretty(entry)

	expectedParts := []string{
		"2025-01-01 12:00:00",
		"[INFO]",
		"test:",
		"[DRY-RUN]",
		"test message",
		"{action=updated, path=package.json}",
	}
	for _, part := range expectedParts {
		if !strings.Contains(result, part) {
			t.Errorf("formatPretty() result missing expected part: %s\nResult: %s", part, result)
		}
	}
}

func TestLoggerJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{
		config: Config{Level: InfoLevel, JSON: true, Component: "test"},
		logger: log.New(&buf, "", 0),
	}

	logger.Log(InfoLevel, "test message", String("job", "fix:package.json"))

	output := strings.TrimSpace(buf.String())
	var parsed LogEntry
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("Log() produced invalid JSON: %v\nOutput: %s", err, output)
	}
	if parsed.Message != "test message" {
		t.Errorf("Parsed JSON message = %v, expected 'test message'", parsed.Message)
	}
	if parsed.Level != "INFO" {
		t.Errorf("Parsed JSON level = %v, expected 'INFO'", parsed.Level)
	}
	if parsed.Fields["job"] != "fix:package.json" {
		t.Errorf("Parsed JSON fields = %v", parsed.Fields)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{
		config: Config{Level: WarnLevel, Component: "test"},
		logger: log.New(&buf, "", 0),
	}

	logger.Log(InfoLevel, "info message")
	logger.Log(DebugLevel, "debug message")
	logger.Log(WarnLevel, "warn message")
	logger.Log(ErrorLevel, "error message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("INFO level message should be filtered out")
	}
	if strings.Contains(output, "debug message") {
		t.Error("DEBUG level message should be filtered out")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("WARN level message should appear")
	}
	if !strings.Contains(output, "error message") {
		t.Error("ERROR level message should appear")
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := String("key", "value"); f.Key != "key" || f.Value != "value" {
		t.Errorf("String() = %+v", f)
	}
	if f := Int("count", 42); f.Key != "count" || f.Value != 42 {
		t.Errorf("Int() = %+v", f)
	}
	if f := Bool("enabled", true); f.Key != "enabled" || f.Value != true {
		t.Errorf("Bool() = %+v", f)
	}
	if f := Strings("jobs", []string{"a", "b"}); f.Value != "a,b" {
		t.Errorf("Strings() = %+v", f)
	}
	if f := Duration("took", 1500*time.Millisecond); f.Value != "1.5s" {
		t.Errorf("Duration() = %+v", f)
	}
}

func TestErrField(t *testing.T) {
	errField := Err(errors.New("test error"))
	if errField.Key != "error" {
		t.Errorf("Err() key = %v, expected 'error'", errField.Key)
	}
	if errField.Value != "test error" {
		t.Errorf("Err() value = %v, expected 'test error'", errField.Value)
	}
	if Err(nil).Value != "<nil>" {
		t.Errorf("Err(nil) value = %v", Err(nil).Value)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize(Config{Level: InfoLevel, Component: "test"}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	SetOutput(&buf)

	Info("output test message")
	Debug("hidden debug message")

	output := buf.String()
	if !strings.Contains(output, "output test message") {
		t.Errorf("SetOutput() did not redirect output correctly: %s", output)
	}
	if strings.Contains(output, "hidden debug message") {
		t.Errorf("Debug() should be filtered at info level: %s", output)
	}
}

func TestFallbackLogging(t *testing.T) {
	originalLogger := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = originalLogger }()

	// Must not panic without an initialized logger
	Info("fallback info")
	Error("fallback error")
}
