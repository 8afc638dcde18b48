package log

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	var buf bytes.Buffer
	l, err := New(&buf, "dev", "debug")
	require.NoError(t, err)

	l.Debug(map[string]any{
		"file": "a.css",
		"line": 42,
	}, "test debug")
	l.Info(nil, "test info")
	l.Warn(nil, "test warn")
	l.Error(nil, "test error")

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "test debug")
	assert.Contains(t, out, `"file": "a.css"`)
	assert.Contains(t, out, "test warn")

	assert.Panics(t, func() { l.Panic(nil, "test panic") })
}

func TestProdLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "prod", "warn")
	require.NoError(t, err)

	l.Info(nil, "dropped")
	l.Warn(map[string]any{"file": "a.css"}, "parse error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "parse error", entry["msg"])
	assert.Equal(t, "a.css", entry["file"])
}

func TestSetLoggerAndGlobalLogging(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)
	tlog := &testLogger{}
	SetLogger(tlog)

	Info(nil, "info msg")
	Error(nil, "error msg")
	Debug(nil, "debug msg")
	Warn(nil, "warn msg")

	assert.Equal(t, []string{
		"INFO:info msg",
		"ERROR:error msg",
		"DEBUG:debug msg",
		"WARN:warn msg",
	}, tlog.entries)
}

func TestConfigure_ValidLevels(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	assert.NoError(t, Configure(io.Discard, "dev", "debug"))
	assert.NoError(t, Configure(io.Discard, "prod", "INFO"))
}

func TestConfigure_Writer(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, "prod", "warn"))
	Info(nil, "dropped")
	Warn(map[string]any{"source": "a.css"}, "kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "a.css", entry["source"])
}

func TestConfigure_InvalidLevel(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)
	tlog := &testLogger{}
	SetLogger(tlog)

	err := Configure(io.Discard, "dev", "notalevel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Same(t, tlog, GetLogger())
}

func TestNoopLogger_TestAllLevels(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)
	SetLogger(NewNoopLogger())

	Debug(nil, "debug message")
	Info(nil, "info message")
	Warn(nil, "warn message")
	Error(nil, "error message")
	Panic(nil, "panic message")
	Fatal(nil, "fatal message")
}
