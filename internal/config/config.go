package config

import (
	"os"
	"strconv"
)

// Config is environment-variable configuration loaded once at startup.
type Config struct {
	ListenUDPAddr string
	SpectateAddr  string

	HistoryCapacity int
	TickRate        int

	LogLevel  string
	LogFormat string

	DatabaseURL string
}

func Load() *Config {
	return &Config{
		ListenUDPAddr:   getEnv("FIGHTSIM_UDP_ADDR", "127.0.0.1:9999"),
		SpectateAddr:    getEnv("FIGHTSIM_SPECTATE_ADDR", ":8080"),
		HistoryCapacity: getEnvInt("FIGHTSIM_HISTORY_CAPACITY", 64),
		TickRate:        getEnvInt("FIGHTSIM_TICK_RATE", 60),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/fightsim?sslmode=disable"),
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
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
