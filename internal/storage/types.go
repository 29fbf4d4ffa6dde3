package storage

import (
	"ai-interview-client/internal/api"
	"ai-interview-client/internal/session"
)

// AttemptResult представляет сохраненную попытку интервью
type AttemptResult struct {
	AttemptID           string                `json:"attempt_id"`
	Position            string                `json:"position"`
	Timestamp           string                `json:"timestamp"`
	QuestionsAndAnswers []session.QA          `json:"questions_and_answers"`
	Evaluation          *api.EvaluationResult `json:"evaluation,omitempty"`
}
