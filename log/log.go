package log

import (
	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	var err error
	if logger, err = zap.NewProduction(); err != nil {
		logger = zap.NewNop()
	}
}

// 替换默认logger，以便接入上层服务的日志配置
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func GetLogger() *zap.Logger {
	return logger
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Sync() error {
	return logger.Sync()
}
