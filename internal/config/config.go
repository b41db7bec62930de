package config

import (
	"log"
	"os"
	"strings"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TREND_DIGEST_CONFIG"
	logLevelEnv      = "TREND_DIGEST_LOG_LEVEL"
	bearerTokenEnv   = "X_BEARER_TOKEN"
	wechatAppIDEnv   = "WECHAT_APP_ID"
	wechatSecretEnv  = "WECHAT_APP_SECRET"
	wechatResolveEnv = "WECHAT_API_HOST_IPS"
)

// Config holds high-level settings shared across the tools.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	X       XConfig       `yaml:"x"`
	WeChat  WeChatConfig  `yaml:"wechat"`
	Cover   CoverConfig   `yaml:"cover"`
}

// LoggingConfig controls the stderr log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// XConfig describes the X API v2 recent-search endpoint and credentials.
type XConfig struct {
	BearerToken string `yaml:"bearerToken"`
	SearchURL   string `yaml:"searchUrl"`
}

// WeChatConfig wires the Official Account API host and credentials.
// ResolveIPs pins the API host and is honored by the fallback transport only.
type WeChatConfig struct {
	AppID      string   `yaml:"appId"`
	AppSecret  string   `yaml:"appSecret"`
	APIHost    string   `yaml:"apiHost"`
	ResolveIPs []string `yaml:"resolveIps"`
}

// CoverConfig carries cover-rendering defaults shared with the CLI flags.
type CoverConfig struct {
	Width     int      `yaml:"width"`
	Height    int      `yaml:"height"`
	Quality   int      `yaml:"quality"`
	Subtitle  string   `yaml:"subtitle"`
	FontPaths []string `yaml:"fontPaths"`
}

// Load reads the optional .env file, then the optional YAML configuration,
// and finally applies environment overrides on top of the defaults.
func Load() Config {
	_ = gotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(bearerTokenEnv); v != "" {
		c.X.BearerToken = v
	}

	if v := os.Getenv(wechatAppIDEnv); v != "" {
		c.WeChat.AppID = v
	}

	if v := os.Getenv(wechatSecretEnv); v != "" {
		c.WeChat.AppSecret = v
	}

	if v := os.Getenv(wechatResolveEnv); v != "" {
		var ips []string
		for _, part := range strings.Split(v, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				ips = append(ips, ip)
			}
		}
		c.WeChat.ResolveIPs = ips
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.X.BearerToken != "" {
		base.X.BearerToken = override.X.BearerToken
	}
	if override.X.SearchURL != "" {
		base.X.SearchURL = override.X.SearchURL
	}

	if override.WeChat.AppID != "" {
		base.WeChat.AppID = override.WeChat.AppID
	}
	if override.WeChat.AppSecret != "" {
		base.WeChat.AppSecret = override.WeChat.AppSecret
	}
	if override.WeChat.APIHost != "" {
		base.WeChat.APIHost = override.WeChat.APIHost
	}
	if len(override.WeChat.ResolveIPs) > 0 {
		base.WeChat.ResolveIPs = override.WeChat.ResolveIPs
	}

	if override.Cover.Width > 0 {
		base.Cover.Width = override.Cover.Width
	}
	if override.Cover.Height > 0 {
		base.Cover.Height = override.Cover.Height
	}
	if override.Cover.Quality > 0 {
		base.Cover.Quality = override.Cover.Quality
	}
	if override.Cover.Subtitle != "" {
		base.Cover.Subtitle = override.Cover.Subtitle
	}
	if len(override.Cover.FontPaths) > 0 {
		base.Cover.FontPaths = override.Cover.FontPaths
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		X: XConfig{
			SearchURL: "https://api.x.com/2/tweets/search/recent",
		},
		WeChat: WeChatConfig{
			APIHost: "https://api.weixin.qq.com",
		},
		Cover: CoverConfig{
			Width:    900,
			Height:   383,
			Quality:  80,
			Subtitle: "大模型/AI 热点速览",
			FontPaths: []string{
				"/System/Library/Fonts/AppleSDGothicNeo.ttc",
				"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
				"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			},
		},
	}
}
