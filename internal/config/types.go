package config

import "time"

// Config представляет конфигурацию клиента интервью
type Config struct {
	API       APIConfig       `yaml:"api"`
	Interview InterviewConfig `yaml:"interview"`
	Media     MediaConfig     `yaml:"media"`
	Storage   StorageConfig   `yaml:"storage"`
}

// APIConfig содержит настройки подключения к серверу
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	MaxTurns         int  `yaml:"max_turns"`
	SnapshotOnSubmit bool `yaml:"snapshot_on_submit"`
}

// MediaConfig содержит настройки захвата камеры и микрофона
type MediaConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	VideoDevice string `yaml:"video_device"`
	AudioDevice string `yaml:"audio_device"`
	FrameWidth  int    `yaml:"frame_width"`
	FrameHeight int    `yaml:"frame_height"`
}

// StorageConfig содержит пути для локального хранения
type StorageConfig struct {
	ResultsDir string `yaml:"results_dir"`
	TokenFile  string `yaml:"token_file"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetMaxTurns() int {
	return c.Interview.MaxTurns
}

func (c *Config) GetAPITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) GetBaseURL() string {
	return c.API.BaseURL
}
