package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"migration-console/internal/pkg/config"
)

// Log 供需要注入 *zap.Logger 的组件使用，Init 之前为 no-op
var Log = zap.NewNop()
var log = zap.NewNop()
var logWriter = &LogWriter{zapcore.AddSync(os.Stdout)}

// 代码位置只保留模块内路径，便于在 IDE 中跳转
var callerRoots = []string{"/cmd/", "/internal/", "/pkg/"}

// timeEncoder 2006-01-02 15:04:05.000
func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

// callerEncoder internal/state/watcher.go:78
func callerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	if !caller.Defined {
		enc.AppendString("undefined")
		return
	}
	file := filepath.ToSlash(caller.File)
	for _, root := range callerRoots {
		if i := strings.LastIndex(file, root); i >= 0 {
			enc.AppendString(fmt.Sprintf("%s:%d", file[i+1:], caller.Line))
			return
		}
	}
	enc.AppendString(caller.TrimmedPath())
}

// Build 按配置构造 logger，不修改全局变量
func Build(cfg *config.LogConfig) (*zap.Logger, zapcore.WriteSyncer, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       timeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     callerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		// 写文件时不带颜色
		if cfg.Output == "file" {
			encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		} else {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	ws, err := writeSyncer(cfg)
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(encoder, ws, ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), ws, nil
}

// writeSyncer stdout，或按大小滚动的日志文件
func writeSyncer(cfg *config.LogConfig) (zapcore.WriteSyncer, error) {
	if cfg.Output != "file" || cfg.FilePath == "" {
		return zapcore.Lock(zapcore.AddSync(os.Stdout)), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}), nil
}

// Init 初始化全局日志
func Init(cfg *config.LogConfig) error {
	l, ws, err := Build(cfg)
	if err != nil {
		return err
	}
	Log = l
	log = l.WithOptions(zap.AddCallerSkip(1))
	logWriter = &LogWriter{ws}
	return nil
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Named 返回带模块名的子 logger
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Close 刷新缓冲，stdout 上的 sync 错误忽略
func Close() error {
	if err := Log.Sync(); err != nil && !isStdSyncError(err) {
		return fmt.Errorf("close log error: %w", err)
	}
	return nil
}

func isStdSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}
