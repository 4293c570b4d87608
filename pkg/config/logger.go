package config

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger wraps zap with otelzap so log lines carry trace_id and span_id of
// the span found in the context.
type AppLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
}

func NewAppLogger(cfg *AppConfig) (*AppLogger, error) {
	zapConfig := zap.NewProductionConfig()

	if !cfg.IsProduction() {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := zapConfig.Build(zap.Fields(zap.String("service", cfg.ServiceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return WrapLogger(zapLogger, cfg.ServiceName), nil
}

func WrapLogger(logger *zap.Logger, serviceName string) *AppLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AppLogger{
		Logger:      otelzap.New(logger),
		ServiceName: serviceName,
	}
}

func NewNopLogger() *AppLogger {
	return WrapLogger(zap.NewNop(), "todolist")
}

func (l *AppLogger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *AppLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, fields...)
}

func (l *AppLogger) WarnWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Warn(msg, fields...)
}

func (l *AppLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, fields...)
}
