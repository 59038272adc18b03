// Package logger provides structured logging based on Zap.
//
// New builds a development logger (console friendly, debug level) or a
// production logger (JSON, configurable level) from Config.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber context
// and attaches it to the logger, so every log line of one scan request can be
// correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Warn("Scan did not match", zap.String("outcome", string(ev.Outcome)))
package logger
