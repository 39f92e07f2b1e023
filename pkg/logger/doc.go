// Package logger provides the structured logging interface used across the
// pipeline.
//
// It wraps zerolog. Console output is human readable and colourless when
// stdout is not a terminal; when a log file is configured, JSON lines are
// also written to it through a size-rotated lumberjack writer.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.WithField("run_id", runID)
//	log.InfoWithFields("Edges consolidated", map[string]interface{}{
//	    "raw":          len(raw),
//	    "consolidated": len(edges),
//	})
//
// Tests use NewNopLogger or NewTestLogger, which captures messages.
package logger
