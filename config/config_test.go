package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("默认端口应为 8080，得到 %d", cfg.Server.Port)
	}
	if cfg.WS.PongTimeout != 60*time.Second {
		t.Errorf("默认 pong 超时应为 60s，得到 %v", cfg.WS.PongTimeout)
	}
	if cfg.Retention.MaxAge != 720*time.Hour {
		t.Errorf("默认通知保留时长应为 720h，得到 %v", cfg.Retention.MaxAge)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	path := writeTempConfig(t, "server:\n  port: 9000\n")

	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 应报错")
	}
}

func TestLoadShortSecret(t *testing.T) {
	path := writeTempConfig(t, "auth:\n  jwt_secret: short\n")

	if _, err := Load(path); err == nil {
		t.Error("过短的 jwt_secret 应报错")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeTempConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\nserver:\n  port: 9000\n")
	t.Setenv("PME_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("环境变量应覆盖配置文件，期望 9090，得到 %d", cfg.Server.Port)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	path := writeTempConfig(t, "auth:\n  jwt_secret: test-secret-key-0123456789\nserver:\n  port: 70000\n")

	if _, err := Load(path); err == nil {
		t.Error("非法端口应报错")
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db.internal", Port: 5433, Name: "pme360",
		User: "app", Password: "pw", SSLMode: "require", Timezone: "UTC",
	}
	want := "host=db.internal port=5433 user=app password=pw dbname=pme360 sslmode=require TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Errorf("DSN 不符:\n得到 %s\n期望 %s", got, want)
	}
}
