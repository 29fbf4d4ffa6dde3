package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/metrics"
)

// Machine управляет одной попыткой интервью: хранит вопросы и ответы,
// двигает сессию по состояниям и дергает транспорт и захват.
// Все переходы сериализованы: пока один ответ отправляется,
// второй отклоняется с ErrSubmissionInFlight.
type Machine struct {
	mu sync.Mutex

	transport Transport
	capture   Capture
	metrics   *metrics.Metrics
	log       *zap.Logger

	attemptID        string
	position         string
	chatID           string
	turns            []Turn
	currentIndex     int
	status           Status
	maxTurns         int
	snapshotOnSubmit bool

	inFlight  bool
	epoch     int
	evaluated bool

	evaluation *api.EvaluationResult
	evalErr    error
}

// NewMachine создает машину состояний для одной попытки
func NewMachine(transport Transport, capture Capture, maxTurns int, snapshotOnSubmit bool, m *metrics.Metrics, log *zap.Logger) *Machine {
	return &Machine{
		transport:        transport,
		capture:          capture,
		metrics:          m,
		log:              log,
		attemptID:        uuid.New().String(),
		status:           StatusNotStarted,
		maxTurns:         maxTurns,
		snapshotOnSubmit: snapshotOnSubmit,
	}
}

// Start начинает интервью по выбранной позиции.
// При ошибке транспорта сессия остается в NotStarted.
func (m *Machine) Start(position, resumeContent string) error {
	m.mu.Lock()
	if m.status != StatusNotStarted {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrSubmissionInFlight
	}
	m.inFlight = true
	epoch := m.epoch
	m.mu.Unlock()

	result, err := m.transport.StartInterview(position, resumeContent)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		return ErrClosed
	}
	m.inFlight = false

	if err != nil {
		return err
	}

	m.position = position
	m.chatID = result.ChatID
	m.turns = []Turn{{Question: result.Question}}
	m.currentIndex = 0
	m.status = StatusInProgress
	m.metrics.IncrementSessionsStarted()

	m.log.Info("интервью начато",
		zap.String("attempt_id", m.attemptID),
		zap.String("position", position),
		zap.String("chat_id", m.chatID),
	)
	return nil
}

// SubmitCurrentAnswer отправляет ответ на текущий вопрос.
// Пустой ответ отклоняется без обращения к транспорту.
func (m *Machine) SubmitCurrentAnswer(ans Answer) error {
	if strings.TrimSpace(ans.Text) == "" && ans.Audio.Empty() {
		return ErrEmptyAnswer
	}
	ans.Code = false
	return m.submit(ans)
}

// SubmitCode отправляет ответ-код. Проверка текст/аудио не применяется,
// снимки и аудио к коду не прикладываются.
func (m *Machine) SubmitCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyAnswer
	}
	return m.submit(Answer{Text: code, Code: true})
}

func (m *Machine) submit(ans Answer) error {
	m.mu.Lock()
	switch m.status {
	case StatusNotStarted:
		m.mu.Unlock()
		return ErrNotStarted
	case StatusFinished:
		m.mu.Unlock()
		return ErrFinished
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrSubmissionInFlight
	}
	m.inFlight = true
	epoch := m.epoch

	// Ответ прикрепляется к ходу до отправки: при ошибке транспорта
	// он остается на месте и доступен для повторной отправки
	turn := &m.turns[m.currentIndex]
	if len(turn.Answer.Images) > 0 && len(ans.Images) == 0 {
		ans.Images = turn.Answer.Images
	}
	turn.Answer = ans
	question := turn.Question
	position := m.position
	chatID := m.chatID
	m.mu.Unlock()

	// Снимок с камеры не блокирует отправку: ноль удачных
	// изображений - нормальный исход
	if m.snapshotOnSubmit && !ans.Code && m.capture != nil {
		if img, err := m.capture.Snapshot(); err != nil {
			m.log.Warn("снимок не сделан", zap.Error(err))
		} else {
			ans.Images = append(ans.Images, img)
			m.mu.Lock()
			if m.epoch == epoch {
				m.turns[m.currentIndex].Answer.Images = ans.Images
			}
			m.mu.Unlock()
		}
	}

	req := api.TurnRequest{
		Position:        position,
		CurrentQuestion: question,
		UserAnswer:      ans.Text,
		ChatID:          chatID,
		CodeSubmission:  ans.Code,
	}
	if !ans.Audio.Empty() {
		file := ans.Audio.File()
		req.Audio = &api.FilePayload{
			Name:        file.Name,
			ContentType: file.ContentType,
			Data:        file.Data,
		}
	}
	for _, img := range ans.Images {
		file := img.File()
		req.Images = append(req.Images, api.FilePayload{
			Name:        file.Name,
			ContentType: file.ContentType,
			Data:        file.Data,
		})
	}

	result, err := m.transport.NextQuestion(req)

	m.mu.Lock()
	if m.epoch != epoch {
		// Сессия закрыта, поздний ответ сервера отбрасывается
		m.mu.Unlock()
		return ErrClosed
	}
	m.inFlight = false

	if err != nil {
		// Состояние и прикрепленный ответ сохранены для повтора
		m.mu.Unlock()
		return err
	}

	m.turns[m.currentIndex].Submitted = true
	m.currentIndex++
	m.metrics.IncrementTurnsSubmitted()

	// Локальный лимит важнее ответа сервера
	if m.currentIndex >= m.maxTurns || result.Finished {
		return m.finishLocked(epoch)
	}

	m.turns = append(m.turns, Turn{Question: result.Question})
	m.mu.Unlock()
	return nil
}

// Finish досрочно завершает интервью по запросу пользователя.
// Оценка запрашивается, если есть хотя бы один отправленный ответ.
func (m *Machine) Finish() error {
	m.mu.Lock()
	switch m.status {
	case StatusNotStarted:
		m.mu.Unlock()
		return ErrNotStarted
	case StatusFinished:
		m.mu.Unlock()
		return ErrFinished
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrSubmissionInFlight
	}
	return m.finishLocked(m.epoch)
}

// finishLocked переводит сессию в Finished и запускает оценку.
// Вызывается с захваченным мьютексом и освобождает его.
func (m *Machine) finishLocked(epoch int) error {
	m.status = StatusFinished
	questions, answers := m.transcriptLocked()
	m.mu.Unlock()

	m.metrics.IncrementSessionsFinished()
	m.log.Info("интервью завершено",
		zap.String("attempt_id", m.attemptID),
		zap.Int("answered", len(questions)),
	)

	if len(questions) > 0 {
		m.runEvaluation(epoch, questions, answers)
	}
	return nil
}

// runEvaluation запрашивает оценку ровно один раз за попытку
func (m *Machine) runEvaluation(epoch int, questions, answers []string) {
	m.mu.Lock()
	if m.evaluated {
		m.mu.Unlock()
		return
	}
	m.evaluated = true
	position := m.position
	m.mu.Unlock()

	result, err := m.transport.Evaluate(position, questions, answers)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	if err != nil {
		m.log.Error("ошибка оценки интервью", zap.Error(err))
		m.evalErr = err
		return
	}
	m.evaluation = result
}

// transcriptLocked собирает вопросы и ответы отправленных ходов
func (m *Machine) transcriptLocked() ([]string, []string) {
	var questions, answers []string
	for _, turn := range m.turns {
		if !turn.Submitted {
			continue
		}
		questions = append(questions, turn.Question)
		answer := turn.Answer.Text
		if answer == "" && !turn.Answer.Audio.Empty() {
			answer = "[аудио ответ]"
		}
		answers = append(answers, answer)
	}
	return questions, answers
}

// Close закрывает сессию при уходе с экрана интервью.
// Устройства захвата освобождаются независимо от отправки в полете,
// поздние ответы сервера будут отброшены.
func (m *Machine) Close() {
	m.mu.Lock()
	m.epoch++
	m.inFlight = false
	m.mu.Unlock()

	if m.capture != nil {
		m.capture.ReleaseAll()
	}
	m.log.Info("сессия закрыта", zap.String("attempt_id", m.attemptID))
}

// Методы чтения состояния

func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Machine) AttemptID() string {
	return m.attemptID
}

func (m *Machine) Position() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// CurrentQuestion возвращает вопрос, ожидающий ответа
func (m *Machine) CurrentQuestion() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusInProgress || m.currentIndex >= len(m.turns) {
		return "", false
	}
	return m.turns[m.currentIndex].Question, true
}

// CurrentIndex возвращает номер хода, ожидающего ответа
func (m *Machine) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentIndex
}

// AnsweredCount возвращает число отправленных ответов
func (m *Machine) AnsweredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, turn := range m.turns {
		if turn.Submitted {
			count++
		}
	}
	return count
}

func (m *Machine) MaxTurns() int {
	return m.maxTurns
}

// Transcript возвращает копию транскрипта отправленных ходов
func (m *Machine) Transcript() []QA {
	m.mu.Lock()
	defer m.mu.Unlock()

	questionsAndAnswers := make([]QA, 0, len(m.turns))
	for _, turn := range m.turns {
		if !turn.Submitted {
			continue
		}
		answer := turn.Answer.Text
		if answer == "" && !turn.Answer.Audio.Empty() {
			answer = "[аудио ответ]"
		}
		questionsAndAnswers = append(questionsAndAnswers, QA{
			Question: turn.Question,
			Answer:   answer,
		})
	}
	return questionsAndAnswers
}

// Evaluation возвращает результат оценки после завершения
func (m *Machine) Evaluation() (*api.EvaluationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evaluation, m.evalErr
}
