package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	JWTSecret       string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	RestaurantID    string
	Language        string
	AllowedOrigins  []string
	QRImageHosts    []string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8082"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		UpstreamBaseURL: getEnv("CORE_API_URL", "http://localhost:8080/api"),
		UpstreamTimeout: time.Duration(getEnvInt("CORE_API_TIMEOUT_SECONDS", 15)) * time.Second,
		RestaurantID:    getEnv("RESTAURANT_ID", ""),
		Language:        getEnv("LANGUAGE", "vi"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		QRImageHosts:    splitList(getEnv("QR_IMAGE_HOSTS", "img.vietqr.io")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
