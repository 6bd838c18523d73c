package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxLoggedSQL = 1000

var gormLevels = map[string]gormlogger.LogLevel{
	"silent":  gormlogger.Silent,
	"error":   gormlogger.Error,
	"warn":    gormlogger.Warn,
	"warning": gormlogger.Warn,
	"info":    gormlogger.Info,
	"debug":   gormlogger.Info,
}

// GormLogger routes GORM's query log through zap with request IDs attached.
type GormLogger struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// NewGormLoggerWithConfig maps the application log level onto GORM's levels.
// Unknown levels log warnings and errors only.
func NewGormLoggerWithConfig(zapLogger *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	level, ok := gormLevels[logLevel]
	if !ok {
		level = gormlogger.Warn
	}
	return &GormLogger{
		ZapLogger:     zapLogger,
		SlowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		LogLevel:      level,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.LogLevel < min {
		return
	}
	WithContext(ctx, l.ZapLogger).Sugar().Logf(lvl, msg, data...)
}

// Trace implements gormlogger.Interface.
// Duplicate keys log at warn since concurrent registrations of one email produce them.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	lvl, msg, ok := l.classify(elapsed, err)
	if !ok {
		return
	}

	sql, rows := fc()
	fields := make([]zap.Field, 0, 6)
	if len(sql) > maxLoggedSQL {
		sql = sql[:maxLoggedSQL] + "..."
		fields = append(fields, zap.Bool("sql_truncated", true))
	}
	fields = append(fields,
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if msg == "gorm slow query" {
		fields = append(fields, zap.Duration("threshold", l.SlowThreshold))
	}

	WithContext(ctx, l.ZapLogger).Log(lvl, msg, fields...)
}

// classify picks the level and message for a finished query; ok is false when nothing is logged.
func (l *GormLogger) classify(elapsed time.Duration, err error) (zapcore.Level, string, bool) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return zapcore.WarnLevel, "gorm constraint violation", l.LogLevel >= gormlogger.Warn
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return zapcore.ErrorLevel, "gorm query error", l.LogLevel >= gormlogger.Error
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold:
		return zapcore.WarnLevel, "gorm slow query", l.LogLevel >= gormlogger.Warn
	default:
		return zapcore.DebugLevel, "gorm query", l.LogLevel >= gormlogger.Info
	}
}

// ParamsFilter implements gormlogger.ParamsFilter.
// Bound values (emails, password hashes) are dropped so logged SQL keeps its placeholders.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}
