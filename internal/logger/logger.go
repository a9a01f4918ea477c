// 包 logger：统一初始化与获取日志器，通过环境变量控制日志级别与输出格式
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// 默认日志器：进程级复用
var defaultLogger *slog.Logger

// Setup：初始化默认日志器
// 背景：服务与命令行共用同一套日志配置；LOG_LEVEL 控制级别，LOG_FORMAT=json 切换为结构化输出。
// 约束：输出目标固定为标准错误，标准输出留给命令行的数据结果。
func Setup() *slog.Logger {
	defaultLogger = New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	return defaultLogger
}

// New 按级别与格式构造日志器，供测试或命令行 --verbose 覆盖
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel 未识别的级别回退为 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Discard：丢弃所有输出的日志器
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// L：获取默认日志器；未初始化则回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}

// Set 替换默认日志器
func Set(l *slog.Logger) {
	if l != nil {
		defaultLogger = l
	}
}
