package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/jbedje/pme-360-backend-deploy/config"
)

func parseMust(t *testing.T, s string) zapcore.Level {
	t.Helper()
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		t.Fatalf("解析级别失败: %v", err)
	}
	return level
}

func TestNewLoggerJSON(t *testing.T) {
	logger, err := NewLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("构建日志器失败: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if !logger.Core().Enabled(parseMust(t, "info")) {
		t.Error("info 级别应被启用")
	}
	if logger.Core().Enabled(parseMust(t, "debug")) {
		t.Error("debug 级别不应被启用")
	}
}

func TestNewLoggerConsole(t *testing.T) {
	logger, err := NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("构建日志器失败: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if !logger.Core().Enabled(parseMust(t, "debug")) {
		t.Error("debug 级别应被启用")
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("非法日志级别应报错")
	}
}
