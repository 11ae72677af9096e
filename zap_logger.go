package docstore

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts go.uber.org/zap to the Logger interface.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger creates a new Zap logger adapter.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger.Sugar()}
}

// NewProductionZapLogger creates a production-ready Zap logger with
// ISO 8601 timestamps, matching the timestamp convention of stored
// documents.
func NewProductionZapLogger() (*ZapLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

// NewDevelopmentZapLogger creates a Zap logger tuned for human-readable
// console output.
func NewDevelopmentZapLogger() (*ZapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

func (l *ZapLogger) Debug(msg string, fields ...any) { l.logger.Debugw(msg, fields...) }
func (l *ZapLogger) Info(msg string, fields ...any)  { l.logger.Infow(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...any)  { l.logger.Warnw(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...any) { l.logger.Errorw(msg, fields...) }
