package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/logisense/backend/internal/infrastructure/log/handler"
)

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	debugMode     bool
	initMu        sync.Mutex
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	// 创建 handler options
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	out := openOutput(cfg.Output)

	// 根据格式选择处理器
	var logHandler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		logHandler = handler.NewJSONHandler(out, opts)
	case "text":
		logHandler = slog.NewTextHandler(out, opts)
	default:
		logHandler = handler.NewConsoleHandler(out, opts)
	}

	// 添加服务标识
	logger := slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", "logisense-backend"),
	}))

	initMu.Lock()
	defaultLogger = logger
	debugMode = strings.ToLower(cfg.Level) == "debug"
	initMu.Unlock()

	slog.SetDefault(logger)
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	initMu.Lock()
	logger := defaultLogger
	initMu.Unlock()

	if logger == nil {
		// 未初始化，使用默认配置
		Init(nil)
		return GetLogger()
	}
	return logger
}

// With 创建带有额外字段的 logger
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return debugMode
}

// parseLevel 解析日志级别
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openOutput 解析输出目标，文件打开失败时回退到 stdout
func openOutput(output string) io.Writer {
	switch {
	case output == "" || output == "stdout":
		return os.Stdout
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		f, err := os.OpenFile(strings.TrimPrefix(output, "file:"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}
