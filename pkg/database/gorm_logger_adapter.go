package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/askflow/pkg/log"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLoggerAdapter routes gorm output through the global zap logger,
// tagged with the trace of the statement context.
type GormLoggerAdapter struct {
	Config logger.Config
	Level  logger.LogLevel
}

func NewGormLoggerAdapter(config logger.Config, logLevel logger.LogLevel) *GormLoggerAdapter {
	return &GormLoggerAdapter{Config: config, Level: logLevel}
}

func (l *GormLoggerAdapter) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.Level = level
	return &clone
}

func (l *GormLoggerAdapter) sugar(ctx context.Context) *zap.SugaredLogger {
	return log.WithContext(ctx).Desugar().WithOptions(zap.AddCallerSkip(2)).Sugar()
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, data ...any) {
	if l.Level >= logger.Info {
		l.sugar(ctx).Infof(msg, data...)
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, data ...any) {
	if l.Level >= logger.Warn {
		l.sugar(ctx).Warnf(msg, data...)
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, data ...any) {
	if l.Level >= logger.Error {
		l.sugar(ctx).Errorf(msg, data...)
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	s := l.sugar(ctx)

	switch {
	case err != nil && l.Level >= logger.Error &&
		!(errors.Is(err, gorm.ErrRecordNotFound) && l.Config.IgnoreRecordNotFoundError):
		s.Errorw("sql failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case l.Config.SlowThreshold != 0 && elapsed > l.Config.SlowThreshold && l.Level >= logger.Warn:
		s.Warnw("slow sql", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.Level >= logger.Info:
		s.Debugw("sql", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
