package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LogWriter 适配 gorm logger.Writer，SQL 日志与应用日志写到同一位置
type LogWriter struct {
	zapcore.WriteSyncer
}

func (l *LogWriter) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.WriteSyncer, format+"\n", args...)
}

func GetWriter() *LogWriter {
	return logWriter
}
