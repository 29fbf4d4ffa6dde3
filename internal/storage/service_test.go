package storage

import (
	"path/filepath"
	"testing"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/session"
)

func TestSaveAndLoadResult(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "results"))

	result := &AttemptResult{
		AttemptID: "abc-123",
		Position:  "Backend разработчик",
		Timestamp: "2026-09-01T12:00:00Z",
		QuestionsAndAnswers: []session.QA{
			{Question: "Расскажите о себе", Answer: "Я разработчик"},
			{Question: "Что такое goroutine?", Answer: "[аудио ответ]"},
		},
		Evaluation: &api.EvaluationResult{
			Abilities:   map[string]int{"техника": 70},
			Suggestions: []string{"изучить конкурентность"},
		},
	}

	if err := s.SaveResult(result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	loaded, err := s.LoadResult("abc-123")
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}

	if loaded.Position != result.Position {
		t.Errorf("позиция: %q", loaded.Position)
	}
	if len(loaded.QuestionsAndAnswers) != 2 {
		t.Fatalf("транскрипт: %+v", loaded.QuestionsAndAnswers)
	}
	if loaded.QuestionsAndAnswers[1].Answer != "[аудио ответ]" {
		t.Errorf("ответ: %q", loaded.QuestionsAndAnswers[1].Answer)
	}
	if loaded.Evaluation == nil || loaded.Evaluation.Abilities["техника"] != 70 {
		t.Errorf("оценка: %+v", loaded.Evaluation)
	}
}

func TestSaveWithoutEvaluation(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "results"))

	result := &AttemptResult{
		AttemptID:           "no-eval",
		Position:            "Аналитик",
		Timestamp:           "2026-09-01T12:00:00Z",
		QuestionsAndAnswers: []session.QA{{Question: "q", Answer: "a"}},
	}

	if err := s.SaveResult(result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	loaded, err := s.LoadResult("no-eval")
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if loaded.Evaluation != nil {
		t.Errorf("оценка должна отсутствовать: %+v", loaded.Evaluation)
	}
}

func TestListResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	s := New(dir)

	// Пустая или отсутствующая директория - пустой список
	results, err := s.ListResults()
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("результаты: %v", results)
	}

	for _, id := range []string{"first", "second"} {
		err := s.SaveResult(&AttemptResult{AttemptID: id, Position: "x"})
		if err != nil {
			t.Fatal(err)
		}
	}

	results, err = s.ListResults()
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("попыток в списке: %d, ожидали 2", len(results))
	}

	found := map[string]bool{}
	for _, id := range results {
		found[id] = true
	}
	if !found["first"] || !found["second"] {
		t.Errorf("идентификаторы: %v", results)
	}
}

func TestLoadMissingResult(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.LoadResult("нет-такого"); err == nil {
		t.Error("ожидали ошибку чтения")
	}
}
