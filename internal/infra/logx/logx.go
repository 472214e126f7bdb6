package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel 把配置中的级别名转换为 slog.Level（大小写不敏感，空串视为 info）。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("未知日志级别：%q（可选 debug|info|warn|error）", s)
	}
}

// New 构造写到 w 的文本 logger。
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Discard 返回丢弃全部输出的 logger（测试或未注入 logger 时使用）。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
