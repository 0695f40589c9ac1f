package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured JSON logging with request context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates the service logger.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(method, path, ip, requestID string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"request_id", requestID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs scoring operation details
func (l *Logger) PredictionLogger(requestID string, rawProbability float64, adjusted bool, duration time.Duration) {
	l.Info("Prediction Completed",
		"request_id", requestID,
		"raw_probability", rawProbability,
		"adjusted_for_prevalence", adjusted,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}
