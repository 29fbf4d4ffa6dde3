package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"ai-interview-client/internal/api"
)

// ExportRecords выгружает записи интервью в Excel файл:
// сводный лист и лист с транскриптами.
func ExportRecords(records []api.Record, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Сводка"
	transcriptSheet := "Транскрипты"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(transcriptSheet)

	if err := createSummarySheet(f, summarySheet, records); err != nil {
		return fmt.Errorf("ошибка создания сводного листа: %w", err)
	}

	if err := createTranscriptSheet(f, transcriptSheet, records); err != nil {
		return fmt.Errorf("ошибка создания листа транскриптов: %w", err)
	}

	// Сначала пробуем сохранить напрямую, затем через буфер
	if err := f.SaveAs(outputPath); err != nil {
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("ошибка сохранения Excel файла: %v, запись в буфер: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("ошибка сохранения Excel файла: %v, запись файла: %w", err, fileErr)
		}
	}

	return nil
}

// createSummarySheet заполняет сводный лист по записям
func createSummarySheet(f *excelize.File, sheetName string, records []api.Record) error {
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 60)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{"ID", "Позиция", "Дата", "Оценки", "Рекомендации"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A1", "E1", headerStyle)

	for i, record := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), record.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), record.Position)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), record.CreatedAt)

		evaluation := parseEvaluation(record.Result)
		if evaluation != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), formatAbilities(evaluation.Abilities))
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), strings.Join(evaluation.Suggestions, "; "))
		}
	}

	return nil
}

// createTranscriptSheet заполняет лист с вопросами и ответами
func createTranscriptSheet(f *excelize.File, sheetName string, records []api.Record) error {
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 60)
	f.SetColWidth(sheetName, "C", "C", 80)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	row := 1
	for _, record := range records {
		title := fmt.Sprintf("Интервью #%d - %s (%s)", record.ID, record.Position, record.CreatedAt)
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), title)
		f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), headerStyle)
		row++

		for i, question := range record.Questions {
			answer := ""
			if i < len(record.Answers) {
				answer = record.Answers[i]
			}
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), question)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), answer)
			row++
		}
		row++
	}

	return nil
}

// parseEvaluation извлекает оценку из поля result записи
func parseEvaluation(raw json.RawMessage) *api.EvaluationResult {
	if len(raw) == 0 {
		return nil
	}

	// Новый формат: {"evaluation": {...}}
	var wrapped api.RecordResult
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Evaluation != nil {
		return wrapped.Evaluation
	}

	// Старый формат: оценка лежит в корне
	var plain api.EvaluationResult
	if err := json.Unmarshal(raw, &plain); err == nil && len(plain.Abilities) > 0 {
		return &plain
	}

	return nil
}

// formatAbilities приводит карту оценок к стабильной строке
func formatAbilities(abilities map[string]int) string {
	keys := make([]string, 0, len(abilities))
	for key := range abilities {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", key, abilities[key]))
	}
	return strings.Join(parts, ", ")
}
