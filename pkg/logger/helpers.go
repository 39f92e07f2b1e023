package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// LogComponentStart logs when a pipeline component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	l = l.WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Debug("Component started")
}

// LogComponentStop logs when a pipeline component finishes
func LogComponentStop(l Logger, component string, started time.Time, counts map[string]interface{}) {
	fields := map[string]interface{}{
		"component": component,
		"duration":  time.Since(started),
	}
	for k, v := range counts {
		fields[k] = v
	}
	l.InfoWithFields("Component finished", fields)
}

// LogStage logs progress through a named pipeline stage
func LogStage(l Logger, stage string, fields map[string]interface{}) {
	l.WithField("stage", stage).InfoWithFields("Stage complete", fields)
}

// LogFileSkipped logs a per-file failure that does not stop the run
func LogFileSkipped(l Logger, path string, err error) {
	l.WithError(err).WithField("file", path).Warn("Skipping unreadable file")
}

// LogMetrics logs summary metrics of a run
func LogMetrics(l Logger, operation string, metrics map[string]interface{}) {
	fields := map[string]interface{}{
		"operation": operation,
		"type":      "metrics",
	}
	for k, v := range metrics {
		fields[k] = v
	}
	l.InfoWithFields("Run metrics", fields)
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
