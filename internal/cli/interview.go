package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"ai-interview-client/internal/media"
	"ai-interview-client/internal/session"
)

func nowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// startInterview готовит и запускает новую попытку интервью
func (h *Handler) startInterview() {
	positions, err := h.client.Positions()
	if err != nil {
		h.showError(err)
		return
	}

	if len(positions) == 0 {
		fmt.Println("❌ Нет доступных позиций.")
		return
	}

	fmt.Println("📋 Доступные позиции:")
	for i, position := range positions {
		fmt.Printf("%d. %s\n", i+1, position)
	}

	choice := h.readLine("Номер позиции: ")
	index, err := strconv.Atoi(choice)
	if err != nil || index < 1 || index > len(positions) {
		fmt.Println("❌ Некорректный номер позиции.")
		return
	}
	position := positions[index-1]

	resumeContent := ""
	resumePath := h.readLine("Путь к резюме для контекста (пусто - без резюме): ")
	if resumePath != "" {
		data, err := os.ReadFile(resumePath)
		if err != nil {
			fmt.Printf("⚠️ Не удалось прочитать резюме: %v. Продолжаем без него.\n", err)
		} else {
			resumeContent = string(data)
		}
	}

	machine := session.NewMachine(
		h.client,
		h.adapter,
		h.config.GetMaxTurns(),
		h.config.Interview.SnapshotOnSubmit,
		h.metrics,
		h.log,
	)

	fmt.Println("⏳ Запрашиваем первый вопрос...")
	if err := machine.Start(position, resumeContent); err != nil {
		machine.Close()
		h.showError(err)
		return
	}

	h.machine = machine
	h.view = ViewInterview

	// Камера не обязательна: без нее интервью идет без снимков
	h.acquireCamera()

	welcomeText := fmt.Sprintf(`🎯 Интервью началось!
• Позиция: %s
• Максимум вопросов: %d
• ID попытки: %s

Отвечайте текстом, /rec для аудио, /code для кода, /help для справки.`,
		position, machine.MaxTurns(), machine.AttemptID())
	fmt.Println(welcomeText)

	h.showCurrentQuestion()
}

// acquireCamera открывает камеру для снимков во время ответов
func (h *Handler) acquireCamera() {
	_, err := h.adapter.AcquireCamera(media.Constraints{
		Device: h.config.Media.VideoDevice,
		Width:  h.config.Media.FrameWidth,
		Height: h.config.Media.FrameHeight,
	})
	if err != nil {
		h.showError(err)
		fmt.Println("📷 Интервью продолжится без снимков с камеры.")
		return
	}
	fmt.Println("📷 Камера включена.")
}

func (h *Handler) showCurrentQuestion() {
	question, ok := h.machine.CurrentQuestion()
	if !ok {
		return
	}
	fmt.Printf("\n❓ Вопрос %d/%d:\n%s\n",
		h.machine.CurrentIndex()+1, h.machine.MaxTurns(), question)
}

// handleInterviewView обрабатывает экран интервью
func (h *Handler) handleInterviewView() {
	if h.machine == nil {
		h.view = ViewHome
		return
	}

	input := h.readLine("🎤 [интервью] ответ или команда > ")

	switch {
	case input == "":
		return
	case input == "/help":
		h.showInterviewHelp()
	case input == "/status":
		h.showInterviewStatus()
	case input == "/rec":
		h.toggleRecording()
	case input == "/send":
		h.submitAnswer("")
	case input == "/code":
		h.submitCode()
	case input == "/snap":
		h.takeSnapshot()
	case input == "/camera":
		h.acquireCamera()
	case input == "/stop":
		h.stopInterview()
	case strings.HasPrefix(input, "/"):
		fmt.Println("Неизвестная команда. Используйте /help.")
	default:
		h.submitAnswer(input)
	}
}

func (h *Handler) showInterviewHelp() {
	helpText := `📋 Команды интервью:
<текст>  - отправить текстовый ответ
/rec     - начать/остановить запись аудио ответа
/send    - отправить ответ только с записанным аудио
/code    - ввести ответ-код (завершение строкой /end)
/snap    - сделать снимок к следующему ответу
/camera  - переподключить камеру
/status  - прогресс интервью
/stop    - завершить интервью и получить оценку`
	fmt.Println(helpText)
}

func (h *Handler) showInterviewStatus() {
	recState := "нет"
	if h.adapter.IsRecording() {
		recState = "идет 🔴"
	}
	audioState := "нет"
	if !h.pendingAudio.Empty() {
		audioState = fmt.Sprintf("записано %d байт", len(h.pendingAudio.Blob))
	}
	cameraState := "выключена"
	if h.adapter.HasCamera() {
		cameraState = "включена"
	}

	fmt.Printf(`📊 Прогресс интервью:
• Позиция: %s
• Отвечено: %d/%d
• Запись аудио: %s
• Готовое аудио: %s
• Снимков к ответу: %d
• Камера: %s
`, h.machine.Position(), h.machine.AnsweredCount(), h.machine.MaxTurns(),
		recState, audioState, len(h.pendingImages), cameraState)
}

// takeSnapshot делает снимок к следующему отправленному ответу
func (h *Handler) takeSnapshot() {
	artifact, err := h.adapter.Snapshot()
	if err != nil {
		h.showError(err)
		return
	}
	h.pendingImages = append(h.pendingImages, artifact)
	fmt.Printf("📸 Снимок %dx%d сделан, будет приложен к ответу (всего: %d).\n",
		artifact.Width, artifact.Height, len(h.pendingImages))
}

// toggleRecording начинает или завершает запись аудио ответа
func (h *Handler) toggleRecording() {
	if h.recording != nil {
		artifact := h.adapter.StopRecording(h.recording)
		h.recording = nil

		if artifact.Empty() {
			fmt.Println("⚠️ Аудио не записалось. Ответьте текстом или попробуйте снова.")
			return
		}

		h.pendingAudio = artifact
		fmt.Printf("🎙 Аудио записано (%d байт). Отправьте /send или добавьте текст.\n", len(artifact.Blob))
		return
	}

	rec, err := h.adapter.StartRecording()
	if err != nil {
		h.showError(err)
		return
	}
	h.recording = rec
	fmt.Println("🔴 Запись началась. Повторите /rec для остановки.")
}

// submitAnswer отправляет текущий ответ с накопленным аудио
func (h *Handler) submitAnswer(text string) {
	// Незавершенная запись останавливается перед отправкой
	if h.recording != nil {
		artifact := h.adapter.StopRecording(h.recording)
		h.recording = nil
		if !artifact.Empty() {
			h.pendingAudio = artifact
			fmt.Printf("🎙 Запись остановлена (%d байт).\n", len(artifact.Blob))
		}
	}

	answer := session.Answer{
		Text:   text,
		Audio:  h.pendingAudio,
		Images: h.pendingImages,
	}

	fmt.Println("⏳ Отправляем ответ...")
	err := h.machine.SubmitCurrentAnswer(answer)
	if err != nil {
		// Аудио и снимки остаются для повторной отправки
		h.showError(err)
		return
	}

	h.pendingAudio = nil
	h.pendingImages = nil
	h.afterSubmit()
}

// submitCode читает многострочный код до /end и отправляет его
func (h *Handler) submitCode() {
	fmt.Println("💻 Введите код, завершите строкой /end:")

	var lines []string
	for {
		line := h.readLine("")
		if h.quit || line == "/end" {
			break
		}
		lines = append(lines, line)
	}

	code := strings.Join(lines, "\n")
	fmt.Println("⏳ Отправляем код...")
	if err := h.machine.SubmitCode(code); err != nil {
		h.showError(err)
		return
	}

	h.afterSubmit()
}

// afterSubmit показывает следующий вопрос или итоги
func (h *Handler) afterSubmit() {
	if h.machine.Status() == session.StatusFinished {
		h.finishInterview()
		return
	}
	fmt.Println("✅ Ответ принят!")
	h.showCurrentQuestion()
}

// stopInterview досрочно завершает интервью
func (h *Handler) stopInterview() {
	if err := h.machine.Finish(); err != nil {
		h.showError(err)
		return
	}
	h.finishInterview()
}

// finishInterview показывает оценку и возвращает в меню
func (h *Handler) finishInterview() {
	fmt.Printf("\n🎉 Интервью завершено! Отвечено вопросов: %d\n", h.machine.AnsweredCount())

	h.showEvaluation()
	h.saveAttempt()
	h.teardownInterview()
	h.view = ViewHome
}

func (h *Handler) showEvaluation() {
	evaluation, err := h.machine.Evaluation()
	if err != nil {
		fmt.Println("⚠️ Не удалось получить оценку интервью. Запись сохранена без нее.")
		return
	}
	if evaluation == nil {
		return
	}

	fmt.Println("\n📊 Оценка способностей:")
	keys := make([]string, 0, len(evaluation.Abilities))
	for key := range evaluation.Abilities {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("• %s: %d/100\n", key, evaluation.Abilities[key])
	}

	if len(evaluation.Suggestions) > 0 {
		fmt.Println("\n💡 Рекомендации:")
		for _, suggestion := range evaluation.Suggestions {
			fmt.Printf("• %s\n", suggestion)
		}
	}

	if len(evaluation.KeyIssues) > 0 {
		fmt.Println("\n⚠️ Ключевые проблемы:")
		for _, issue := range evaluation.KeyIssues {
			fmt.Printf("• %s\n", issue)
		}
	}
}
