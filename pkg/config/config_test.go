package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" || cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	r := cfg.Recommend
	if r.MinScore != 0.3 || r.MaxStored != 20 || r.MaxReturned != 12 || r.HistorySessions != 10 || r.TrendingLimit != 10 || r.PricingConcurrency != 8 {
		t.Errorf("unexpected recommend config: %+v", r)
	}
	if cfg.Pricing.CurrencySymbol != "₹" {
		t.Errorf("currency = %q", cfg.Pricing.CurrencySymbol)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECOMMEND_MIN_SCORE", "0.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.MinScore != 0.5 || cfg.Redis.Addr != "localhost:6379" || cfg.Logger.Format != "console" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"min score above one", func(c *Config) { c.Recommend.MinScore = 1.5 }, "RECOMMEND_MIN_SCORE"},
		{"stored below returned", func(c *Config) { c.Recommend.MaxStored = 5 }, "RECOMMEND_MAX_STORED"},
		{"zero concurrency", func(c *Config) { c.Recommend.PricingConcurrency = 0 }, "limits must be positive"},
		{"empty secret", func(c *Config) { c.JWT.SecretKey = "" }, "JWT_SECRET_KEY"},
		{"short refresh", func(c *Config) { c.JWT.RefreshExp = time.Minute }, "refresh token"},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: DatabaseConfig{MaxConns: 4},
		JWT:      JWTConfig{SecretKey: "s", Expiration: time.Hour, RefreshExp: 2 * time.Hour},
		Recommend: RecommendConfig{
			MinScore:           0.3,
			MaxStored:          20,
			MaxReturned:        12,
			HistorySessions:    10,
			TrendingLimit:      10,
			PricingConcurrency: 8,
		},
		Pricing: PricingConfig{CurrencySymbol: "₹"},
		Logger:  LoggerConfig{Level: "info", Format: "json"},
	}
}
