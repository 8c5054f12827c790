package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/exprbench/xerrors"
)

func newBufferLogger(t *testing.T, level string, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := New(&Config{Level: level, Format: "json", Output: "buffer"}, append(opts, WithBuffer(&buf))...)
	require.NoError(t, err)
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config", config: nil},
		{name: "defaults", config: &Config{}},
		{name: "json", config: &Config{Level: "debug", Format: "json", Output: "stdout"}},
		{name: "invalid level", config: &Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: &Config{Format: "xml"}, wantErr: true},
		{name: "buffer without option", config: &Config{Output: "buffer"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_InvalidConfigCarriesCode(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeInvalidConfig, xerrors.GetCode(err))
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, "warn")

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "error")
	child := logger.WithNamespace("child")

	logger.Info("hidden")
	require.NoError(t, logger.SetLevel(DebugLevel))
	child.Debug("visible")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "visible", lines[0]["msg"])
}

func TestLogger_NamespaceAndFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", WithNamespace("exprbench"))

	logger.WithNamespace("bench", "", "dense").
		With(String("run_id", "r1")).
		Info("done", Int("size", 50), Duration("total", time.Millisecond), Float64("ratio", 0.5), Bool("ok", true))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "exprbench.bench.dense", line[NamespaceKey])
	assert.Equal(t, "r1", line["run_id"])
	assert.EqualValues(t, 50, line["size"])
	assert.EqualValues(t, time.Millisecond, line["total"])
	assert.Equal(t, 0.5, line["ratio"])
	assert.Equal(t, true, line["ok"])
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	_ = logger.With(String("a", "1"))
	logger.Info("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	_, ok := lines[0]["a"]
	assert.False(t, ok)
}

func TestErrorField(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	logger.Error("plain", Error(errors.New("boom")))
	logger.Error("coded", Error(xerrors.WithCode(errors.New("bad"), "E1")))
	logger.Error("nil", Error(nil))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "boom", lines[0]["err_msg"])
	assert.Equal(t, map[string]any{"msg": "[E1] bad", "code": "E1"}, lines[1]["error"])
	_, ok := lines[2]["err_msg"]
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "Error"} {
		level, err := ParseLevel(s)
		require.NoError(t, err, s)
		assert.NotEmpty(t, level.String())
	}

	level, err := ParseLevel("nope")
	assert.Error(t, err)
	assert.Equal(t, InfoLevel, level)
	assert.Equal(t, "level(3)", Level(3).String())
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bench.log")
	logger, err := New(&Config{Level: "info", Format: "console", Output: path, AddSource: true})
	require.NoError(t, err)

	logger.Info("to file")
	logger.Flush()

	assert.FileExists(t, path)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Info("x")
		logger.With(String("k", "v")).WithNamespace("ns").ErrorContext(context.TODO(), "y")
		assert.NoError(t, logger.SetLevel(DebugLevel))
		logger.Flush()
	})
}
