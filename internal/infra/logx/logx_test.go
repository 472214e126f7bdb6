package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) 不期望错误：%v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q)=%v，期望 %v", in, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("期望未知级别报错")
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	l.Info("hidden")
	l.Warn("shown", "url", "https://example.test")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info 不应输出：%q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "url=https://example.test") {
		t.Fatalf("warn 输出缺失：%q", out)
	}
}
