package session

import (
	"errors"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/media"
)

// Status представляет состояние сессии интервью.
// Переходы только вперед: NotStarted -> InProgress -> Finished.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Answer представляет содержимое ответа на текущий вопрос.
// До отправки требуется текст или аудио, снимки опциональны.
type Answer struct {
	Text   string
	Audio  *media.AudioArtifact
	Images []*media.ImageArtifact
	Code   bool
}

// Turn представляет одну пару вопрос-ответ.
// После отправки на сервер ход больше не изменяется.
type Turn struct {
	Question  string
	Answer    Answer
	Submitted bool
}

// QA представляет запись транскрипта
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Transport выполняет сетевые вызовы сессии
type Transport interface {
	StartInterview(position, resumeContent string) (*api.StartResult, error)
	NextQuestion(turn api.TurnRequest) (*api.TurnResult, error)
	Evaluate(position string, questions, answers []string) (*api.EvaluationResult, error)
}

// Capture делает снимки с камеры и освобождает устройства
type Capture interface {
	Snapshot() (*media.ImageArtifact, error)
	ReleaseAll()
}

// Ошибки машины состояний
var (
	ErrAlreadyStarted     = errors.New("интервью уже начато")
	ErrNotStarted         = errors.New("интервью не начато")
	ErrFinished           = errors.New("интервью уже завершено")
	ErrSubmissionInFlight = errors.New("предыдущий ответ еще отправляется")
	ErrEmptyAnswer        = errors.New("ответ должен содержать текст или аудио")
	ErrClosed             = errors.New("сессия закрыта")
)
