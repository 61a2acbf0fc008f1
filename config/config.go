// Package config loads application settings from the environment, an optional
// .env file and an optional config.yaml.
// File: config/config.go
package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/text/language"

	"zerosync-web/logger"
)

const insecureDefaultSecret = "zerosync-dev-secret-change-me"

// Config holds application configuration.
type Config struct {
	Port           string
	Env            string
	ApplicationURL string
	WebsocketURL   string
	AllowedOrigins []string

	SessionName   string
	SessionSecret string

	LoginDelay         time.Duration
	VisitorIdleTimeout time.Duration

	LogDir       string
	TemplatesDir string
	StaticDir    string

	CurrencyLocale language.Tag
	RateLimit      limiter.Rate

	MetricsEnabled   bool
	MetricsNamespace string
	TracingEnabled   bool

	// ServerIP overrides the connect address from the catalog when set.
	ServerIP string
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration. A missing .env or config.yaml is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APPLICATION_URL", "http://localhost:8080")
	v.SetDefault("WEBSOCKET_URL", "ws://localhost:8080/ws")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080")
	v.SetDefault("SESSION_NAME", "zerosync")
	v.SetDefault("SESSION_SECRET", insecureDefaultSecret)
	v.SetDefault("LOGIN_DELAY", "2s")
	v.SetDefault("VISITOR_IDLE_TIMEOUT", "30m")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("TEMPLATES_DIR", "templates")
	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("CURRENCY_LOCALE", "en")
	v.SetDefault("RATE_LIMIT", "30-M")
	v.SetDefault("METRICS_ENABLED", false)
	v.SetDefault("METRICS_NAMESPACE", "ZeroSyncWeb")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("SERVER_IP", "")

	// config.yaml is optional; env-only is fine.
	_ = v.ReadInConfig()

	cfg := &Config{
		Port:             strings.TrimSpace(v.GetString("PORT")),
		Env:              strings.TrimSpace(v.GetString("APP_ENV")),
		ApplicationURL:   strings.TrimRight(v.GetString("APPLICATION_URL"), "/"),
		WebsocketURL:     v.GetString("WEBSOCKET_URL"),
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS")),
		SessionName:      v.GetString("SESSION_NAME"),
		SessionSecret:    v.GetString("SESSION_SECRET"),
		LogDir:           v.GetString("LOG_DIR"),
		TemplatesDir:     v.GetString("TEMPLATES_DIR"),
		StaticDir:        v.GetString("STATIC_DIR"),
		MetricsEnabled:   v.GetBool("METRICS_ENABLED"),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
		TracingEnabled:   v.GetBool("TRACING_ENABLED"),
		ServerIP:         strings.TrimSpace(v.GetString("SERVER_IP")),
	}

	var err error
	if cfg.LoginDelay, err = time.ParseDuration(v.GetString("LOGIN_DELAY")); err != nil || cfg.LoginDelay <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_DELAY %q", v.GetString("LOGIN_DELAY"))
	}
	if cfg.VisitorIdleTimeout, err = time.ParseDuration(v.GetString("VISITOR_IDLE_TIMEOUT")); err != nil || cfg.VisitorIdleTimeout <= 0 {
		return nil, fmt.Errorf("invalid VISITOR_IDLE_TIMEOUT %q", v.GetString("VISITOR_IDLE_TIMEOUT"))
	}
	if cfg.CurrencyLocale, err = language.Parse(v.GetString("CURRENCY_LOCALE")); err != nil {
		return nil, fmt.Errorf("invalid CURRENCY_LOCALE %q: %w", v.GetString("CURRENCY_LOCALE"), err)
	}
	if cfg.RateLimit, err = limiter.NewRateFromFormatted(v.GetString("RATE_LIMIT")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", v.GetString("RATE_LIMIT"), err)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if cfg.SessionName == "" {
		return nil, fmt.Errorf("SESSION_NAME must not be empty")
	}

	if cfg.SessionSecret == insecureDefaultSecret {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		logger.Warn.Println("[config] SESSION_SECRET not set; using the insecure development default")
	}

	logger.Info.Printf("[config] Loaded: env=%s port=%s appURL=%s loginDelay=%v locale=%s",
		cfg.Env, cfg.Port, cfg.ApplicationURL, cfg.LoginDelay, cfg.CurrencyLocale)
	return cfg, nil
}

// SessionKeys derives the cookie authentication (HMAC) and encryption (AES-256)
// keys from SESSION_SECRET.
func (c *Config) SessionKeys() (authKey, encKey []byte, err error) {
	kdf := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("zerosync-session-cookie"))
	authKey = make([]byte, 32)
	encKey = make([]byte, 32)
	if _, err = io.ReadFull(kdf, authKey); err != nil {
		return nil, nil, fmt.Errorf("derive session auth key: %w", err)
	}
	if _, err = io.ReadFull(kdf, encKey); err != nil {
		return nil, nil, fmt.Errorf("derive session encryption key: %w", err)
	}
	return authKey, encKey, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
