package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	JWTSecret         string
	CORSOrigins       string
	GeminiAPIKey      string
	GeminiModel       string
	ResendAPIKey      string
	AlertFrom         string
	AlertEmail        string // fallback recipient when the caller has no e-mail
	LowStockThreshold int
	LogLevel          string
}

func Load() *Config {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=inventory port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		AlertFrom:         getEnv("ALERT_FROM", "Inventory <alert@resend.dev>"),
		AlertEmail:        getEnv("ALERT_EMAIL", ""),
		LowStockThreshold: getEnvInt("LOW_STOCK_LIMIT", 5),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set, label scanning will fail")
	}
	if cfg.ResendAPIKey == "" {
		log.Println("[WARN] RESEND_API_KEY is not set, low-stock alerts will fail")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s is not an integer, using default %d", key, def)
	}
	return def
}
