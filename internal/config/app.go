package config

import (
	"os"
	"strconv"
)

// AppConfig содержит настройки приложения из переменных окружения
type AppConfig struct {
	APIBaseURL string
	ConfigPath string
	Debug      bool
}

// LoadAppConfig загружает настройки приложения из переменных окружения.
// INTERVIEW_API_URL имеет приоритет над api.base_url из YAML файла.
func LoadAppConfig() *AppConfig {
	return &AppConfig{
		APIBaseURL: getEnv("INTERVIEW_API_URL", ""),
		ConfigPath: getEnv("INTERVIEW_CONFIG", "config/client.yaml"),
		Debug:      getEnvAsBool("INTERVIEW_DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
