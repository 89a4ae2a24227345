// Package logging wraps the process-wide structured logger. All domain
// operations and update runs log through it in JSON by default.
package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

// RunIDKey is the context key carrying the id of one update run or CLI
// session.
const RunIDKey contextKey = "run_id"

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	log.SetLevel(logrus.InfoLevel)
}

// GetLogger returns the singleton logger instance
func GetLogger() *logrus.Logger {
	return log
}

// Configure applies level and format in one call.
func Configure(level, format string) {
	SetLogLevel(level)
	if format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// WithRunID adds a fresh run ID to the context
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, RunIDKey, uuid.New().String())
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// LogAction logs one domain operation (BUY, SELL, DEPOSIT, ...) with its
// outcome. Errors are logged but never swallowed by the caller.
func LogAction(ctx context.Context, action string, userID int, username string, fields map[string]interface{}, err error) {
	logFields := logrus.Fields{
		"run_id":  GetRunID(ctx),
		"action":  action,
		"user_id": userID,
		"event":   "domain_action",
	}
	if username != "" {
		logFields["username"] = username
	}
	for k, v := range fields {
		logFields[k] = v
	}

	entry := log.WithFields(logFields)
	if err != nil {
		entry.WithFields(logrus.Fields{
			"result": "ERROR",
			"error":  err.Error(),
		}).Info("Domain action failed")
		return
	}
	entry.WithField("result", "OK").Info("Domain action completed")
}

// LogSourceFetch logs one quote source fetch outcome during an update run.
func LogSourceFetch(ctx context.Context, source string, count int, err error) {
	entry := log.WithFields(logrus.Fields{
		"run_id":  GetRunID(ctx),
		"source":  source,
		"event":   "source_fetch",
		"service": "updater",
	})

	if err != nil {
		entry.WithField("error", err.Error()).Error("Source fetch failed")
		return
	}
	entry.WithField("count", count).Info("Source fetch completed")
}
