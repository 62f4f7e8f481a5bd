package log

import (
	"testing"
)

type testLogger struct {
	entries []string
}

func (l *testLogger) Info(_ map[string]any, msg string)  { l.entries = append(l.entries, "INFO:"+msg) }
func (l *testLogger) Error(_ map[string]any, msg string) { l.entries = append(l.entries, "ERROR:"+msg) }
func (l *testLogger) Debug(_ map[string]any, msg string) { l.entries = append(l.entries, "DEBUG:"+msg) }
func (l *testLogger) Warn(_ map[string]any, msg string)  { l.entries = append(l.entries, "WARN:"+msg) }
func (l *testLogger) Panic(_ map[string]any, msg string) {}
func (l *testLogger) Fatal(_ map[string]any, msg string) {}

func TestActualZapLogger(t *testing.T) {
	// test with fields and message
	Debug(map[string]any{
		"host":    "example.com",
		"visits":  3,
		"blocked": true,
	}, "test debug")
	// test with just a message
	Info(nil, "test info")
	Warn(nil, "test warn")
	Error(nil, "test error")
	// recover handler for panic
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic, but none occurred")
		}
	}()
	Panic(nil, "test panic")
	// Note: Fatal will stop the test, so we don't call it here.
}

func TestSetLoggerAndGlobalLogging(t *testing.T) {
	orig := GetLogger()
	defer func() {
		SetLogger(orig)
	}()
	tlog := &testLogger{}
	SetLogger(tlog)

	Info(nil, "info msg")
	Error(nil, "error msg")
	Debug(nil, "debug msg")
	Warn(nil, "warn msg")

	expected := []string{
		"INFO:info msg",
		"ERROR:error msg",
		"DEBUG:debug msg",
		"WARN:warn msg",
	}

	if len(tlog.entries) != len(expected) {
		t.Fatalf("expected %d log entries, got %d", len(expected), len(tlog.entries))
	}
	for i, msg := range expected {
		if tlog.entries[i] != msg {
			t.Errorf("expected log[%d] = %q, got %q", i, msg, tlog.entries[i])
		}
	}
}

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	defer func() {
		SetLogger(orig)
	}()

	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := Configure("dev", level); err != nil {
			t.Errorf("Configure(dev, %s) returned error: %v", level, err)
		}
		if err := Configure("prod", level); err != nil {
			t.Errorf("Configure(prod, %s) returned error: %v", level, err)
		}
	}

	if err := Configure("prod", "loud"); err == nil {
		t.Error("expected error for invalid log level, got nil")
	}
}

func TestNewNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	// All methods are safe to call and discard their input.
	l.Info(nil, "x")
	l.Error(nil, "x")
	l.Debug(nil, "x")
	l.Warn(nil, "x")
	l.Panic(nil, "x")
	l.Fatal(nil, "x")
}
