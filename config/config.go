package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
	Referral  ReferralConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty Addr selects the in-memory rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TelegramConfig struct {
	BotToken    string
	BotUsername string

	// The group a user must join before the mini app unlocks.
	GroupID   int64
	GroupLink string
	GroupName string

	MiniAppURL      string
	WelcomeImageURL string

	// Upper bound on a single membership lookup; on expiry the user
	// is treated as not a member.
	MembershipTimeout time.Duration
}

type ReferralConfig struct {
	Reward            int64
	MaxRejoinAttempts int
	CodePrefix        string
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:         envStr("HTTP_PORT", "8080"),
			Env:          envStr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envStr("DATABASE_DSN", "cashpoints:cashpoints@tcp(localhost:3306)/cashpoints?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", ""),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},
		Telegram: TelegramConfig{
			BotToken:          envStr("BOT_TOKEN", ""),
			BotUsername:       envStr("BOT_USERNAME", "CashPointsBot"),
			GroupID:           envInt64("REQUIRED_GROUP_ID", 0),
			GroupLink:         envStr("REQUIRED_GROUP_LINK", ""),
			GroupName:         envStr("REQUIRED_GROUP_NAME", "our community group"),
			MiniAppURL:        envStr("MINI_APP_URL", ""),
			WelcomeImageURL:   envStr("WELCOME_IMAGE_URL", ""),
			MembershipTimeout: envDuration("MEMBERSHIP_TIMEOUT", 5*time.Second),
		},
		Referral: ReferralConfig{
			Reward:            envInt64("REFERRAL_REWARD", 2),
			MaxRejoinAttempts: envInt("MAX_REJOIN_ATTEMPTS", 3),
			CodePrefix:        envStr("REFERRAL_CODE_PREFIX", "BT"),
		},
		RateLimit: RateLimitConfig{
			Window:      envDuration("RATE_LIMIT_WINDOW", 60*time.Second),
			MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 10),
		},
		JWT: JWTConfig{
			Secret: envStr("JWT_SECRET", "change-me-in-production"),
			Expiry: envDuration("JWT_EXPIRY", 24*time.Hour),
			Issuer: "cashpoints",
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
