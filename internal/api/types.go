package api

import "encoding/json"

// LoginResult представляет результат входа
type LoginResult struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// RegisterRequest представляет данные регистрации
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	School         string `json:"school"`
	Grade          string `json:"grade"`
	TargetPosition string `json:"target_position"`
	Password       string `json:"password"`
}

// StartResult представляет начало сессии интервью
type StartResult struct {
	Question string
	ChatID   string
}

// FilePayload представляет файл для multipart загрузки
type FilePayload struct {
	Name        string
	ContentType string
	Data        []byte
}

// TurnRequest представляет отправку одного ответа
type TurnRequest struct {
	Position        string
	CurrentQuestion string
	UserAnswer      string
	ChatID          string
	CodeSubmission  bool
	Audio           *FilePayload
	Images          []FilePayload
}

// TurnResult представляет ответ сервера на отправленный ход.
// Finished=true - штатное завершение сессии, а не ошибка.
type TurnResult struct {
	Question string
	Finished bool
}

// EvaluationResult представляет оценку интервью
type EvaluationResult struct {
	Abilities   map[string]int `json:"abilities"`
	Suggestions []string       `json:"suggestions"`
	KeyIssues   []string       `json:"key_issues,omitempty"`
}

// Record представляет запись прошедшего интервью
type Record struct {
	ID        int             `json:"id"`
	Position  string          `json:"position"`
	Questions []string        `json:"questions"`
	Answers   []string        `json:"answers"`
	Result    json.RawMessage `json:"result"`
	CreatedAt string          `json:"created_at"`
}

// RecordResult представляет разобранное поле result записи
type RecordResult struct {
	Evaluation *EvaluationResult `json:"evaluation"`
}

// User представляет профиль пользователя
type User struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	School         string `json:"school"`
	Grade          string `json:"grade"`
	TargetPosition string `json:"target_position"`
	IsAdmin        bool   `json:"is_admin"`
	Avatar         string `json:"avatar"`
	InterviewCount int    `json:"interview_count"`
}

// Внутренние формы ответов сервера

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

type positionsResponse struct {
	Success   bool     `json:"success"`
	Positions []string `json:"positions"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
	Position  string   `json:"position"`
}

type startResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	ChatID   string `json:"chat_id"`
	Error    string `json:"error"`
}

type turnResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	ChatID   string `json:"chat_id"`
	Error    string `json:"error"`
}

type evaluateResponse struct {
	Success bool              `json:"success"`
	Result  *EvaluationResult `json:"result"`
	Error   string            `json:"error"`
}

type recordsResponse struct {
	Success bool     `json:"success"`
	Records []Record `json:"records"`
	Error   string   `json:"error"`
}

type profileResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user"`
	Error   string `json:"error"`
}

type simpleResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}
