// Package oplog reports ledger operations through zap.
package oplog

import (
	"context"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger adapts a zap.Logger to ledger.OperationLogger.
type Logger struct {
	logger *zap.Logger
}

// New returns a Logger writing to logger, or to a no-op logger when nil.
func New(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("ledger")}
}

// LogOperation writes one entry. Persistence and unclassified failures are
// errors, ignored secondary failures are warnings, and everything else
// (including user mistakes such as cooldowns) is info.
func (adapter *Logger) LogOperation(_ context.Context, entry ledger.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("document", string(entry.Document)),
		zap.String("status", entry.Status),
	}
	if entry.UserID != "" {
		fields = append(fields, zap.String("user_id", entry.UserID))
	}
	if entry.Subject != "" {
		fields = append(fields, zap.String("subject", entry.Subject))
	}
	if entry.Amount != 0 {
		fields = append(fields, zap.Int64("amount", entry.Amount))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error), zap.String("error_class", ledger.ErrorClass(entry.Error)))
	}
	adapter.logger.Log(levelFor(entry), "ledger operation", fields...)
}

func levelFor(entry ledger.OperationLog) zapcore.Level {
	switch {
	case entry.Status == ledger.OperationStatusIgnored:
		return zapcore.WarnLevel
	case entry.Error == nil:
		return zapcore.InfoLevel
	}
	switch ledger.ErrorClass(entry.Error) {
	case ledger.ErrorClassPersistence, ledger.ErrorClassInternal:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
