package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured logs through zap with trace correlation and, when
// a Loki URL is configured, mirrors every entry to Loki.
type Logger struct {
	Logger      *otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func New(serviceName, level, lokiURL string) (*Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)

	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLogger(zapLogger, serviceName, lokiURL), nil
}

// NewNop discards everything. Used by tests.
func NewNop() *Logger {
	return newLogger(zap.NewNop(), "test", "")
}

func newLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *Logger {
	l := &Logger{
		Logger:      otelzap.New(zapLogger),
		ServiceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		l.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return l
}

func (l *Logger) Zap() *zap.Logger {
	return l.Logger.Logger
}

// Zerolog returns a zerolog logger for libraries that only speak zerolog.
func (l *Logger) Zerolog(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)

	if err != nil {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(zapWriter{l.Zap()}).Level(parsed).With().Timestamp().Logger()
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, fields...)
	case zapcore.WarnLevel:
		l.Logger.Ctx(ctx).Warn(msg, fields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, fields...)
	}

	if l.lokiURL != "" && l.Zap().Core().Enabled(level) {
		entry := l.lokiEntry(ctx, level, msg, fields)
		go l.push(entry)
	}
}

func (l *Logger) lokiEntry(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) LokiLogEntry {
	encoder := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(encoder)
	}

	logData := encoder.Fields
	logData["timestamp"] = time.Now().Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg
	logData["service"] = l.ServiceName

	if spanContext := trace.SpanFromContext(ctx).SpanContext(); spanContext.IsValid() {
		logData["trace_id"] = spanContext.TraceID().String()
		logData["span_id"] = spanContext.SpanID().String()
	}

	line, err := json.Marshal(logData)

	if err != nil {
		line = []byte(fmt.Sprintf(`{"message":%q,"marshal_error":%q}`, msg, err.Error()))
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), string(line)},
				},
			},
		},
	}
}

func (l *Logger) push(entry LokiLogEntry) {
	body, err := json.Marshal(entry)

	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))

	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)

	if err != nil {
		return
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}

type zapWriter struct {
	logger *zap.Logger
}

func (w zapWriter) Write(p []byte) (int, error) {
	w.logger.Debug(string(bytes.TrimSpace(p)))
	return len(p), nil
}
