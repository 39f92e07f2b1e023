package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignetwork/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	return &zerologLogger{logger: zerolog.New(buf).Level(zerolog.DebugLevel)}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "empty level defaults to info", cfg: &config.LoggingConfig{}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "chatty"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := NewWithWriter(tt.cfg, &buf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ignetwork.log")
	var buf bytes.Buffer

	l, err := NewWithWriter(&config.LoggingConfig{Level: "info", File: path, MaxSize: 1}, &buf)
	require.NoError(t, err)

	l.WithField("stage", "build").Info("edges written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"edges written"`)
	assert.Contains(t, string(data), `"stage":"build"`)
	assert.Contains(t, buf.String(), "edges written")
}

func TestConsoleOutputIsPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	l.WithField("handle", "ana").Debug("mention found")

	out := buf.String()
	assert.Contains(t, out, "| mention found")
	assert.Contains(t, out, "handle=ana")
	assert.NotContains(t, out, "\x1b[")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"fatal", zerolog.InfoLevel, true},
		{"invalid", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	tests := []struct {
		level string
		log   func(string)
	}{
		{"debug", l.Debug},
		{"info", l.Info},
		{"warn", l.Warn},
		{"error", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log(tt.level + " message")
			assert.Contains(t, buf.String(), `"level":"`+tt.level+`"`)
			assert.Contains(t, buf.String(), tt.level+" message")
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.WithFields(map[string]interface{}{
		"file":   "menciones_ana.csv",
		"posts":  42,
		"weight": 1.9,
		"legacy": true,
	}).Info("mention file scanned")

	out := buf.String()
	assert.Contains(t, out, `"file":"menciones_ana.csv"`)
	assert.Contains(t, out, `"posts":42`)
	assert.Contains(t, out, `"weight":1.9`)
	assert.Contains(t, out, `"legacy":true`)
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	_ = l.WithField("run_id", "abc")
	l.Info("plain")

	assert.NotContains(t, buf.String(), "run_id")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("malformed row")).Error("read failed")
	assert.Contains(t, buf.String(), `"error":"malformed row"`)
}

func TestEventFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.InfoWithFields("typed", map[string]interface{}{
		"duration": 1500 * time.Millisecond,
		"handles":  []string{"ana", "bob"},
		"cause":    errors.New("boom"),
		"custom":   struct{ Name string }{Name: "x"},
	})

	out := buf.String()
	assert.Contains(t, out, `"handles":["ana","bob"]`)
	assert.Contains(t, out, `"cause":"boom"`)
	assert.Contains(t, out, `"custom":{"Name":"x"}`)
	assert.Contains(t, out, `"duration":`)
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.WithField("field1", "value1").
		WithField("field2", "value2").
		WithFields(map[string]interface{}{"field3": 3}).
		Warn("chained")

	out := buf.String()
	assert.Contains(t, out, `"field1":"value1"`)
	assert.Contains(t, out, `"field2":"value2"`)
	assert.Contains(t, out, `"field3":3`)
}

func TestGlobalLogger(t *testing.T) {
	previous := GetLogger()
	t.Cleanup(func() { SetLogger(previous) })

	tl := NewTestLogger()
	SetLogger(tl)

	Info("global info")
	WithField("k", "v").Warn("global warn")
	WithError(errors.New("x")).Error("global error")

	assert.True(t, tl.HasMessage("global info"))
	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "v", warns[0].Fields["k"])
	errs := tl.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0].Error, "x")
}

func TestHelpers(t *testing.T) {
	tl := NewTestLogger()

	LogComponentStart(tl, "extractor", map[string]interface{}{"mode": "basic"})
	LogComponentStop(tl, "extractor", time.Now(), map[string]interface{}{"edges": 3})
	LogFileSkipped(tl, "bad.csv", errors.New("parse"))
	LogMetrics(tl, "build", map[string]interface{}{"posts": 10})

	msgs := tl.GetMessages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "DEBUG", msgs[0].Level)
	assert.Equal(t, "extractor", msgs[0].Fields["component"])
	assert.Equal(t, 3, msgs[1].Fields["edges"])
	assert.Equal(t, "WARN", msgs[2].Level)
	assert.Equal(t, "bad.csv", msgs[2].Fields["file"])
	assert.Equal(t, "metrics", msgs[3].Fields["type"])

	// nop logger swallows everything
	nop := NewNopLogger()
	nop.WithField("a", 1).WithError(errors.New("b")).Info("ignored")
	assert.NotNil(t, nop.GetZerolog())
}

func TestTestLoggerDerivedSharesSink(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("run_id", "r1")
	child.Info("from child")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "r1", msgs[0].Fields["run_id"])
	assert.True(t, strings.HasPrefix(msgs[0].Message, "from"))
}

func TestLogStage(t *testing.T) {
	tl := NewTestLogger()
	LogStage(tl, "consolidate", map[string]interface{}{"pairs": 7})

	msgs := tl.GetMessagesByLevel("INFO")
	require.Len(t, msgs, 1)
	assert.Equal(t, "consolidate", msgs[0].Fields["stage"])
	assert.Equal(t, 7, msgs[0].Fields["pairs"])
}
