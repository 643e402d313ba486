package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Recommend RecommendConfig
	Pricing   PricingConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// RedisConfig configures the pricing cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RecommendConfig struct {
	MinScore           float64
	MaxStored          int
	MaxReturned        int
	HistorySessions    int
	TrendingLimit      int
	PricingConcurrency int
}

type PricingConfig struct {
	CurrencySymbol string
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables work too
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	maxConns, _ := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	minScore, _ := strconv.ParseFloat(getEnv("RECOMMEND_MIN_SCORE", "0.3"), 64)
	maxStored, _ := strconv.Atoi(getEnv("RECOMMEND_MAX_STORED", "20"))
	maxReturned, _ := strconv.Atoi(getEnv("RECOMMEND_MAX_RETURNED", "12"))
	historySessions, _ := strconv.Atoi(getEnv("RECOMMEND_HISTORY_SESSIONS", "10"))
	trendingLimit, _ := strconv.Atoi(getEnv("RECOMMEND_TRENDING_LIMIT", "10"))
	concurrency, _ := strconv.Atoi(getEnv("RECOMMEND_PRICING_CONCURRENCY", "8"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hotelchain"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Recommend: RecommendConfig{
			MinScore:           minScore,
			MaxStored:          maxStored,
			MaxReturned:        maxReturned,
			HistorySessions:    historySessions,
			TrendingLimit:      trendingLimit,
			PricingConcurrency: concurrency,
		},
		Pricing: PricingConfig{
			CurrencySymbol: getEnv("PRICING_CURRENCY_SYMBOL", "₹"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that would make the service misbehave.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.JWT.Expiration <= 0 || c.JWT.RefreshExp < c.JWT.Expiration {
		errs = append(errs, errors.New("refresh token lifetime must be at least the access token lifetime"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must not be negative, got %d", c.Redis.DB))
	}

	r := c.Recommend
	if r.MinScore < 0 || r.MinScore > 1 {
		errs = append(errs, fmt.Errorf("RECOMMEND_MIN_SCORE must be in [0,1], got %v", r.MinScore))
	}
	if r.MaxReturned <= 0 || r.MaxStored < r.MaxReturned {
		errs = append(errs, errors.New("RECOMMEND_MAX_STORED must be at least RECOMMEND_MAX_RETURNED, both positive"))
	}
	if r.HistorySessions <= 0 || r.TrendingLimit <= 0 || r.PricingConcurrency <= 0 {
		errs = append(errs, errors.New("recommendation limits must be positive"))
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logger.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
