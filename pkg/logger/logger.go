// Package logger 构建 zap 日志
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// Options 日志配置
type Options struct {
	Level       string // debug / info / warn / error
	Development bool   // 开发模式使用 console 编码
}

// New 创建 zap.Logger
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(orDefault(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// GormLevel 与 zap 级别对应的 gorm 日志级别，debug 时打印全部 SQL
func GormLevel(level string) gormlogger.LogLevel {
	switch orDefault(level, "info") {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
