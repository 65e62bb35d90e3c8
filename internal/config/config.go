package config

import (
	"os"
	"strings"
)

type Config struct {
	DatabaseURL          string
	JWTSecret            string
	Port                 string
	GeminiAPIKey         string
	GeminiAPIBase        string
	GeminiModels         []string
	GeminiServiceAccount string
	LogDirectory         string
}

func Load() *Config {
	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", "workchoque.db"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:                 getEnv("PORT", "8080"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiAPIBase:        getEnv("GEMINI_API_BASE", "https://generativelanguage.googleapis.com"),
		GeminiModels:         splitList(getEnv("GEMINI_MODELS", "gemini-2.0-flash,gemini-1.5-flash,gemini-1.5-pro")),
		GeminiServiceAccount: getEnv("GEMINI_SERVICE_ACCOUNT", ""),
		LogDirectory:         getEnv("LOG_DIR", "logs"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
