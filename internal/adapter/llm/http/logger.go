package http

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Logger provides structured logging for API calls. The client works
// with a nil Logger; logging is an embedding-application concern.
type Logger interface {
	// LogRequest logs an outgoing API request (API key redacted)
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs an API response with timing and token info
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogError logs an API error
	LogError(ctx context.Context, err ErrorLog)
}

// RequestLog contains request information for logging.
type RequestLog struct {
	Model     string
	Endpoint  string
	Timestamp time.Time
	Messages  int    // Number of messages in the request
	APIKey    string // Will be redacted to last 4 chars
}

// ResponseLog contains response information for logging.
type ResponseLog struct {
	Model        string
	Timestamp    time.Time
	Duration     time.Duration
	TokensIn     int
	TokensOut    int
	StatusCode   int
	FinishReason string
}

// ErrorLog contains error information for logging.
type ErrorLog struct {
	Model      string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	ErrorType  ErrorType
	StatusCode int
}

// ZapLogger writes structured logs through a zap logger.
type ZapLogger struct {
	logger     *zap.Logger
	redactKeys bool
}

// NewZapLogger creates a Logger backed by the given zap logger.
func NewZapLogger(logger *zap.Logger, redactKeys bool) *ZapLogger {
	return &ZapLogger{
		logger:     logger,
		redactKeys: redactKeys,
	}
}

// SetRedaction enables or disables API key redaction.
func (l *ZapLogger) SetRedaction(enabled bool) {
	l.redactKeys = enabled
}

// LogRequest logs an API request.
func (l *ZapLogger) LogRequest(ctx context.Context, req RequestLog) {
	l.logger.Debug("request sent",
		zap.String("model", req.Model),
		zap.String("endpoint", req.Endpoint),
		zap.Time("timestamp", req.Timestamp),
		zap.Int("messages", req.Messages),
		zap.String("api_key", l.RedactAPIKey(req.APIKey)),
	)
}

// LogResponse logs an API response.
func (l *ZapLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	l.logger.Info("response received",
		zap.String("model", resp.Model),
		zap.Time("timestamp", resp.Timestamp),
		zap.Duration("duration", resp.Duration),
		zap.Int("tokens_in", resp.TokensIn),
		zap.Int("tokens_out", resp.TokensOut),
		zap.Int("status_code", resp.StatusCode),
		zap.String("finish_reason", resp.FinishReason),
	)
}

// LogError logs an API error.
func (l *ZapLogger) LogError(ctx context.Context, err ErrorLog) {
	l.logger.Error("api call failed",
		zap.String("model", err.Model),
		zap.Time("timestamp", err.Timestamp),
		zap.Duration("duration", err.Duration),
		zap.String("error_type", err.ErrorType.String()),
		zap.Int("status_code", err.StatusCode),
		zap.Error(err.Error),
	)
}

// RedactAPIKey shows only the last 4 characters of an API key with
// explicit redaction markers.
func (l *ZapLogger) RedactAPIKey(key string) string {
	if !l.redactKeys {
		return key
	}
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", key[len(key)-4:])
}
