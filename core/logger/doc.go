// Package logger provides a structured logging facility based on Zap.
//
// It builds a configured logger for development (console) or production (json)
// use and offers helpers to derive request- and component-scoped loggers.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID set by the rayid middleware from a
// Fiber context and attaches it to the log entry, so every line written while
// serving a request can be correlated. Component tags long-lived loggers such
// as the reconcile engine or the identity provider.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - Output: stdout, stderr or a file path
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	engineLog := logger.Component(log, "reconcile")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
