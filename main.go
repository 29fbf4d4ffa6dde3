package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/auth"
	"ai-interview-client/internal/cli"
	"ai-interview-client/internal/config"
	"ai-interview-client/internal/media"
	"ai-interview-client/internal/metrics"
	"ai-interview-client/internal/storage"
)

func main() {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем системные переменные")
	}

	appConfig := config.LoadAppConfig()

	cfg, err := config.Load(appConfig.ConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Переменная окружения имеет приоритет над YAML
	if appConfig.APIBaseURL != "" {
		cfg.API.BaseURL = appConfig.APIBaseURL
	}

	logger, err := buildLogger(appConfig.Debug)
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}
	defer logger.Sync()

	m := metrics.NewMetrics()
	authCtx := auth.NewContext(cfg.Storage.TokenFile)
	client := api.NewClient(cfg.GetBaseURL(), cfg.GetAPITimeout(), authCtx, m, logger)

	driver := media.NewFFmpegDriver(cfg.Media.FFmpegPath, logger)
	adapter := media.NewAdapter(driver, cfg.Media.AudioDevice, m, logger)
	defer adapter.ReleaseAll()

	store := storage.New(cfg.Storage.ResultsDir)

	fmt.Println("🤖 AI Интервью - клиент платформы мок-интервью")
	fmt.Printf("🌐 Сервер: %s\n", cfg.GetBaseURL())
	fmt.Println("💡 Введите /help для списка команд")
	fmt.Println()

	handler := cli.NewHandler(client, authCtx, adapter, store, cfg, m, logger)
	handler.Run()
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
