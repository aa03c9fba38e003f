package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// InitLogger 初始化日志器
func InitLogger(level string) {
	Log = logrus.New()

	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}

func ensure() *logrus.Logger {
	if Log == nil {
		InitLogger("info")
	}
	return Log
}

// Debug 调试日志
func Debug(args ...interface{}) {
	ensure().Debug(args...)
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	ensure().Debugf(format, args...)
}

// Info 信息日志
func Info(args ...interface{}) {
	ensure().Info(args...)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	ensure().Infof(format, args...)
}

// Warn 警告日志
func Warn(args ...interface{}) {
	ensure().Warn(args...)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	ensure().Warnf(format, args...)
}

// Error 错误日志
func Error(args ...interface{}) {
	ensure().Error(args...)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	ensure().Errorf(format, args...)
}

// Fatalf 格式化致命错误日志
func Fatalf(format string, args ...interface{}) {
	ensure().Fatalf(format, args...)
}
