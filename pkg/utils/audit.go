package utils

import (
	"errors"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuditLogger records sync runs as JSON lines
type AuditLogger struct {
	*zap.SugaredLogger
}

// NewAuditLogger writes to path, or discards everything when path is empty
func NewAuditLogger(path string) (*AuditLogger, error) {
	if path == "" {
		return &AuditLogger{zap.NewNop().Sugar()}, nil
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	config.OutputPaths = []string{ExpandPath(path)}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &AuditLogger{logger.Sugar()}, nil
}

// With adds key-value pairs to the logger
func (l *AuditLogger) With(keysAndValues ...any) *AuditLogger {
	return &AuditLogger{l.SugaredLogger.With(keysAndValues...)}
}

// Close flushes buffered entries. Sync failing on a terminal or pipe is
// not an error.
func (l *AuditLogger) Close() error {
	err := l.Sync()
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) {
		return nil
	}
	return err
}
