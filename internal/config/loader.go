package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	applyDefaults(&config)

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func applyDefaults(config *Config) {
	if config.API.TimeoutSeconds == 0 {
		config.API.TimeoutSeconds = 120
	}
	if config.Interview.MaxTurns == 0 {
		// Единственное авторитетное значение лимита вопросов
		config.Interview.MaxTurns = 10
	}
	if config.Media.FFmpegPath == "" {
		config.Media.FFmpegPath = "ffmpeg"
	}
	if config.Media.VideoDevice == "" {
		config.Media.VideoDevice = "/dev/video0"
	}
	if config.Media.AudioDevice == "" {
		config.Media.AudioDevice = "default"
	}
	if config.Media.FrameWidth == 0 {
		config.Media.FrameWidth = 640
	}
	if config.Media.FrameHeight == 0 {
		config.Media.FrameHeight = 480
	}
	if config.Storage.ResultsDir == "" {
		config.Storage.ResultsDir = "results"
	}
	if config.Storage.TokenFile == "" {
		config.Storage.TokenFile = ".interview_token"
	}
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("api.base_url не может быть пустым")
	}

	if config.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds должно быть больше 0")
	}

	if config.Interview.MaxTurns <= 0 {
		return fmt.Errorf("interview.max_turns должно быть больше 0")
	}

	if config.Media.FrameWidth <= 0 || config.Media.FrameHeight <= 0 {
		return fmt.Errorf("размеры кадра должны быть положительными: %dx%d",
			config.Media.FrameWidth, config.Media.FrameHeight)
	}

	return nil
}
