package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port      int
	DBPath    string
	UploadDir string
	JWTSecret string
	LogLevel  string
}

// Load reads configuration from the environment, applying defaults.
// Called once from main; nothing in this package runs at import time.
func Load() *Config {
	return &Config{
		Port:      getEnvInt("PORT", 8080),
		DBPath:    getEnv("DB_PATH", "data/datebook.db"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads/dates"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
