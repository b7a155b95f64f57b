package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string // development|production
	HTTPAddr string
	LogLevel string

	DBDriver string
	DBDSN    string

	AuthSecret string
	TokenTTL   time.Duration

	// Judge0-compatible execution service.
	JudgeBaseURL string
	JudgeAPIKey  string
	JudgeAPIHost string

	CoverBasePath string

	// Empty disables the catalog cache.
	RedisAddr     string
	RedisPassword string

	CORSOrigins []string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Env:      envOr("APP_ENV", "development"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:   envDuration("AUTH_TOKEN_TTL", 8*time.Hour),

		JudgeBaseURL: envOr("JUDGE_BASE_URL", "https://judge0-ce.p.rapidapi.com"),
		JudgeAPIKey:  os.Getenv("JUDGE_API_KEY"),
		JudgeAPIHost: os.Getenv("JUDGE_API_HOST"),

		CoverBasePath: envOr("COVER_BASE_PATH", "./data/covers"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
