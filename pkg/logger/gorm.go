package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type gormLogger struct {
	log           Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger routes gorm output through log. Queries are traced at debug
// level, slow queries at warn and failed queries at error. Record not found
// is not treated as a failure.
func NewGormLogger(log Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.Enabled(slog.LevelDebug) {
		level = gormlogger.Info
	}
	return &gormLogger{
		log:           log.WithComponent("gorm"),
		level:         level,
		slowThreshold: defaultSlowQueryThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, message string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info(fmt.Sprintf(message, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, message string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn(fmt.Sprintf(message, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, message string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error(fmt.Sprintf(message, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !expectedQueryError(err) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log.InternalError("db: query failed", err, "sql", sql, "rows", rows, "duration", elapsed)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn("db: slow query", "sql", sql, "rows", rows, "duration", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug("db: query", "sql", sql, "rows", rows, "duration", elapsed)
	}
}

// expectedQueryError reports errors the repositories turn into domain
// outcomes: a missing row, or a unique violation that triggers a re-lookup.
func expectedQueryError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)
}
