package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://localhost:5000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.TimeoutSeconds != 120 {
		t.Errorf("timeout_seconds: %d, ожидали 120", cfg.API.TimeoutSeconds)
	}
	if cfg.GetMaxTurns() != 10 {
		t.Errorf("max_turns: %d, ожидали 10", cfg.GetMaxTurns())
	}
	if cfg.Media.FFmpegPath != "ffmpeg" {
		t.Errorf("ffmpeg_path: %q", cfg.Media.FFmpegPath)
	}
	if cfg.Media.VideoDevice != "/dev/video0" || cfg.Media.AudioDevice != "default" {
		t.Errorf("устройства: %q, %q", cfg.Media.VideoDevice, cfg.Media.AudioDevice)
	}
	if cfg.Media.FrameWidth != 640 || cfg.Media.FrameHeight != 480 {
		t.Errorf("размер кадра: %dx%d", cfg.Media.FrameWidth, cfg.Media.FrameHeight)
	}
	if cfg.Storage.ResultsDir != "results" || cfg.Storage.TokenFile != ".interview_token" {
		t.Errorf("хранение: %q, %q", cfg.Storage.ResultsDir, cfg.Storage.TokenFile)
	}
	if cfg.GetAPITimeout() != 120*time.Second {
		t.Errorf("GetAPITimeout: %v", cfg.GetAPITimeout())
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://interview.example.com"
  timeout_seconds: 30
interview:
  max_turns: 5
  snapshot_on_submit: true
media:
  ffmpeg_path: "/usr/local/bin/ffmpeg"
  video_device: "/dev/video2"
  audio_device: "hw:1,0"
  frame_width: 1280
  frame_height: 720
storage:
  results_dir: "/tmp/results"
  token_file: "/tmp/token.json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GetBaseURL() != "https://interview.example.com" {
		t.Errorf("base_url: %q", cfg.GetBaseURL())
	}
	if cfg.GetMaxTurns() != 5 {
		t.Errorf("max_turns: %d", cfg.GetMaxTurns())
	}
	if !cfg.Interview.SnapshotOnSubmit {
		t.Error("snapshot_on_submit не прочитан")
	}
	if cfg.Media.FrameWidth != 1280 || cfg.Media.FrameHeight != 720 {
		t.Errorf("размер кадра: %dx%d", cfg.Media.FrameWidth, cfg.Media.FrameHeight)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "пустой base_url",
			content: "api:\n  timeout_seconds: 30\n",
		},
		{
			name:    "отрицательный таймаут",
			content: "api:\n  base_url: \"http://x\"\n  timeout_seconds: -5\n",
		},
		{
			name:    "отрицательный лимит вопросов",
			content: "api:\n  base_url: \"http://x\"\ninterview:\n  max_turns: -1\n",
		},
		{
			name:    "отрицательная ширина кадра",
			content: "api:\n  base_url: \"http://x\"\nmedia:\n  frame_width: -640\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("ожидали ошибку валидации")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "нет.yaml")); err == nil {
		t.Error("ожидали ошибку чтения файла")
	}
}

func TestLoadAppConfigEnvOverrides(t *testing.T) {
	t.Setenv("INTERVIEW_API_URL", "http://env.example.com")
	t.Setenv("INTERVIEW_CONFIG", "/etc/interview.yaml")
	t.Setenv("INTERVIEW_DEBUG", "true")

	appCfg := LoadAppConfig()
	if appCfg.APIBaseURL != "http://env.example.com" {
		t.Errorf("APIBaseURL: %q", appCfg.APIBaseURL)
	}
	if appCfg.ConfigPath != "/etc/interview.yaml" {
		t.Errorf("ConfigPath: %q", appCfg.ConfigPath)
	}
	if !appCfg.Debug {
		t.Error("Debug не прочитан из окружения")
	}
}
