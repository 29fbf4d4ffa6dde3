package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Service сохраняет результаты попыток интервью в JSON файлы
type Service struct {
	resultsDir string
}

// New создает сервис локального хранения
func New(resultsDir string) *Service {
	return &Service{resultsDir: resultsDir}
}

// SaveResult сохраняет результат попытки в JSON файл
func (s *Service) SaveResult(result *AttemptResult) error {
	// Создаем директорию если её нет
	err := os.MkdirAll(s.resultsDir, 0755)
	if err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", s.resultsDir, err)
	}

	// Формируем имя файла
	filename := fmt.Sprintf("interview_%s.json", result.AttemptID)
	path := filepath.Join(s.resultsDir, filename)

	// Сериализуем результат в JSON с отступами
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	// Записываем в файл
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}

// LoadResult загружает результат попытки из JSON файла
func (s *Service) LoadResult(attemptID string) (*AttemptResult, error) {
	filename := fmt.Sprintf("interview_%s.json", attemptID)
	path := filepath.Join(s.resultsDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result AttemptResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListResults возвращает список всех сохраненных попыток
func (s *Service) ListResults() ([]string, error) {
	// Проверяем существование директории
	if _, err := os.Stat(s.resultsDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.resultsDir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.resultsDir, err)
	}

	var results []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "interview_") {
			// Убираем "interview_" и ".json"
			attemptID := strings.TrimSuffix(strings.TrimPrefix(name, "interview_"), ".json")
			results = append(results, attemptID)
		}
	}

	return results, nil
}
