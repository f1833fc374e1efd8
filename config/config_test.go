package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("IDREESIA_AUTH_JWT_SECRET", "a-very-long-test-secret")
	t.Setenv("IDREESIA_DB_HOST", "db.internal")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望 port=9090，实际=%d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("期望环境变量覆盖 db.host，实际=%s", cfg.Database.Host)
	}
	if cfg.Database.MaxOpenConns != 2 {
		t.Errorf("期望默认连接池上限=2，实际=%d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxIdleTime != 10*time.Second {
		t.Errorf("期望空闲超时=10s，实际=%v", cfg.Database.ConnMaxIdleTime)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Server: ServerConfig{Port: 8080}, Auth: AuthConfig{JWTSecret: "0123456789abcdef"}}, false},
		{"empty secret", Config{Server: ServerConfig{Port: 8080}}, true},
		{"short secret", Config{Server: ServerConfig{Port: 8080}, Auth: AuthConfig{JWTSecret: "short"}}, true},
		{"bad port", Config{Server: ServerConfig{Port: 70000}, Auth: AuthConfig{JWTSecret: "0123456789abcdef"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
