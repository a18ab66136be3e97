package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func initBuffer(t *testing.T, detailed bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	err := InitWithConfig(LogConfig{
		Level:           "INFO",
		Format:          "json",
		DetailedLogging: detailed,
		TracingEnabled:  false,
		Output:          &buf,
	})
	if err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	return rec
}

func TestInfoWritesJSON(t *testing.T) {
	buf := initBuffer(t, false)

	Info(context.Background(), "LTP fetched", "symbol", "SBIN-EQ", "price", 612.5)

	rec := lastRecord(t, buf)
	if rec["msg"] != "LTP fetched" {
		t.Errorf("Expected msg 'LTP fetched', got %v", rec["msg"])
	}
	if rec["symbol"] != "SBIN-EQ" {
		t.Errorf("Expected symbol field, got %v", rec["symbol"])
	}
	if _, ok := rec["trace_id"]; ok {
		t.Error("Expected no trace_id with tracing disabled")
	}
}

func TestDebugRequiresDetailedLogging(t *testing.T) {
	buf := initBuffer(t, false)
	Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug to be dropped, got %q", buf.String())
	}

	buf = initBuffer(t, true)
	Debug(context.Background(), "shown")
	rec := lastRecord(t, buf)
	if rec["msg"] != "shown" {
		t.Errorf("Expected debug record, got %v", rec)
	}
	src, ok := rec["source"].(map[string]any)
	if !ok {
		t.Fatalf("Expected source group in detailed mode, got %v", rec["source"])
	}
	if !strings.HasSuffix(src["file"].(string), "logger_test.go") {
		t.Errorf("Expected source to point at the test, got %v", src["file"])
	}
}

func TestErrorWithErr(t *testing.T) {
	buf := initBuffer(t, false)

	ErrorWithErr(context.Background(), "Login failed", errors.New("Invalid TOTP"), "client_code", "K123456")

	rec := lastRecord(t, buf)
	if rec["level"] != "ERROR" {
		t.Errorf("Expected ERROR level, got %v", rec["level"])
	}
	if rec["error"] != "Invalid TOTP" {
		t.Errorf("Expected error field, got %v", rec["error"])
	}
}

func TestAuthEvent(t *testing.T) {
	buf := initBuffer(t, false)

	Auth(context.Background(), "K123456", "login_succeeded", "feed_token", true)

	rec := lastRecord(t, buf)
	if rec["type"] != "AUTH" || rec["event"] != "login_succeeded" || rec["client_code"] != "K123456" {
		t.Errorf("Unexpected auth record: %v", rec)
	}
}

func TestOperationTimer(t *testing.T) {
	buf := initBuffer(t, false)

	op := StartOperation(context.Background(), "broker.LTP", "symbol", "SBIN-EQ")
	if op.GetContext() == nil {
		t.Fatal("Expected operation context")
	}
	op.EndWithError(errors.New("boom"))

	rec := lastRecord(t, buf)
	if rec["msg"] != "Operation failed" || rec["operation"] != "broker.LTP" {
		t.Errorf("Unexpected record: %v", rec)
	}
}

func TestMaskToken(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"abc":                     "***",
		"eyJhbGciOiJIUzUxMiJ9.xx": "eyJhbGci...",
	}
	for in, want := range cases {
		if got := MaskToken(in, 8); got != want {
			t.Errorf("MaskToken(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug").String() != "DEBUG" {
		t.Error("Expected lower-case level to parse")
	}
	if parseLogLevel("nonsense").String() != "INFO" {
		t.Error("Expected unknown level to default to INFO")
	}
}

func TestDefaultOutputIsStderr(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout, os.Stderr = outW, errW
	t.Cleanup(func() {
		os.Stdout, os.Stderr = origOut, origErr
		InitWithConfig(LogConfig{Output: io.Discard})
	})

	if err := InitWithConfig(LogConfig{Format: "json"}); err != nil {
		t.Fatal(err)
	}
	Info(context.Background(), "Session ready")

	os.Stdout, os.Stderr = origOut, origErr
	outW.Close()
	errW.Close()
	stdout, _ := io.ReadAll(outR)
	stderr, _ := io.ReadAll(errR)

	if len(stdout) != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}
	if !strings.Contains(string(stderr), "Session ready") {
		t.Errorf("Expected record on stderr, got %q", stderr)
	}
}
