package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level: %s", cfg.Logging.Level)
	}
	if cfg.X.SearchURL != "https://api.x.com/2/tweets/search/recent" {
		t.Fatalf("unexpected search URL: %s", cfg.X.SearchURL)
	}
	if cfg.WeChat.APIHost != "https://api.weixin.qq.com" {
		t.Fatalf("unexpected API host: %s", cfg.WeChat.APIHost)
	}
	if cfg.Cover.Width != 900 || cfg.Cover.Height != 383 || cfg.Cover.Quality != 80 {
		t.Fatalf("unexpected cover defaults: %+v", cfg.Cover)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "token-1")
	t.Setenv("WECHAT_APP_ID", "app-1")
	t.Setenv("WECHAT_APP_SECRET", "secret-1")
	t.Setenv("WECHAT_API_HOST_IPS", " 1.2.3.4 ,5.6.7.8, ")
	t.Setenv("TREND_DIGEST_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.X.BearerToken != "token-1" {
		t.Fatalf("bearer token not applied: %q", cfg.X.BearerToken)
	}
	if cfg.WeChat.AppID != "app-1" || cfg.WeChat.AppSecret != "secret-1" {
		t.Fatalf("wechat credentials not applied: %+v", cfg.WeChat)
	}
	if len(cfg.WeChat.ResolveIPs) != 2 || cfg.WeChat.ResolveIPs[0] != "1.2.3.4" || cfg.WeChat.ResolveIPs[1] != "5.6.7.8" {
		t.Fatalf("resolve IPs not parsed: %v", cfg.WeChat.ResolveIPs)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level not applied: %s", cfg.Logging.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
logging:
  level: warn
x:
  searchUrl: https://search.example.com/recent
cover:
  subtitle: 自定义副标题
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TREND_DIGEST_CONFIG", path)

	cfg := Load()

	if cfg.Logging.Level != "warn" {
		t.Fatalf("file log level not applied: %s", cfg.Logging.Level)
	}
	if cfg.X.SearchURL != "https://search.example.com/recent" {
		t.Fatalf("file search URL not applied: %s", cfg.X.SearchURL)
	}
	if cfg.Cover.Subtitle != "自定义副标题" {
		t.Fatalf("file subtitle not applied: %s", cfg.Cover.Subtitle)
	}
	// untouched sections keep defaults
	if cfg.WeChat.APIHost != "https://api.weixin.qq.com" {
		t.Fatalf("default API host lost: %s", cfg.WeChat.APIHost)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("x:\n  bearerToken: from-file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TREND_DIGEST_CONFIG", path)
	t.Setenv("X_BEARER_TOKEN", "from-env")

	cfg := Load()
	if cfg.X.BearerToken != "from-env" {
		t.Fatalf("env should win over file, got %q", cfg.X.BearerToken)
	}
}
