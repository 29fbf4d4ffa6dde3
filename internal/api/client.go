package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ai-interview-client/internal/auth"
	"ai-interview-client/internal/metrics"
)

// Client выполняет запросы к серверу интервью.
// Все ошибки нормализуются к классам из errors.go, паники исключены.
type Client struct {
	baseURL string
	client  *http.Client
	auth    *auth.Context
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewClient создает клиент API
func NewClient(baseURL string, timeout time.Duration, authCtx *auth.Context, m *metrics.Metrics, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		auth:    authCtx,
		metrics: m,
		log:     log,
	}
}

// doRequest выполняет запрос и нормализует статусы ответа.
// 401 и 403 всегда превращаются в ErrAuth, чтобы вызывающий код
// реагировал на потерю авторизации в одном месте.
func (c *Client) doRequest(req *http.Request, authorized bool) ([]byte, error) {
	if authorized {
		token := c.auth.Token()
		if token == "" {
			return nil, fmt.Errorf("%w: токен отсутствует", ErrAuth)
		}
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.IncrementAPICall(false)
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrementAPICall(false)
		return nil, fmt.Errorf("%w: ошибка чтения ответа: %v", ErrServer, err)
	}

	c.log.Debug("запрос выполнен",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.metrics.IncrementAPICall(false)
		return nil, fmt.Errorf("%w: статус %d", ErrAuth, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncrementAPICall(false)
		return nil, fmt.Errorf("%w: статус %d: %s", ErrServer, resp.StatusCode, serverMessage(body))
	}

	c.metrics.IncrementAPICall(true)
	return body, nil
}

// serverMessage извлекает текст ошибки из тела ответа сервера
func serverMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Msg != "" {
			return payload.Msg
		}
	}
	return "нет описания"
}

func (c *Client) postJSON(path string, reqBody interface{}, out interface{}, authorized bool) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.doRequest(req, authorized)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: ошибка разбора ответа: %v", ErrServer, err)
	}
	return nil
}

func (c *Client) getJSON(path string, out interface{}, authorized bool) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	body, err := c.doRequest(req, authorized)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: ошибка разбора ответа: %v", ErrServer, err)
	}
	return nil
}

// Login выполняет вход и возвращает токен
func (c *Client) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email и пароль не могут быть пустыми", ErrValidation)
	}

	var resp loginResponse
	err := c.postJSON("/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Token == "" {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return &LoginResult{
		Token:   resp.Token,
		Email:   resp.Email,
		Name:    resp.Name,
		IsAdmin: resp.IsAdmin,
	}, nil
}

// Register регистрирует нового пользователя и возвращает токен
func (c *Client) Register(req RegisterRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email и пароль не могут быть пустыми", ErrValidation)
	}

	var resp loginResponse
	err := c.postJSON("/api/register", req, &resp, false)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Token == "" {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return &LoginResult{
		Token:   resp.Token,
		Email:   resp.Email,
		Name:    resp.Name,
		IsAdmin: resp.IsAdmin,
	}, nil
}

// Positions возвращает список доступных позиций
func (c *Client) Positions() ([]string, error) {
	var resp positionsResponse
	err := c.getJSON("/api/positions", &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Positions, nil
}

// SampleQuestions возвращает примеры вопросов для позиции
func (c *Client) SampleQuestions(position string) ([]string, error) {
	var resp questionsResponse
	path := "/api/questions?position=" + url.QueryEscape(position)
	err := c.getJSON(path, &resp, false)
	if err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// StartInterview начинает AI интервью и возвращает первый вопрос
func (c *Client) StartInterview(position, resumeContent string) (*StartResult, error) {
	if position == "" {
		return nil, fmt.Errorf("%w: позиция не выбрана", ErrValidation)
	}

	reqBody := map[string]string{"position": position}
	if resumeContent != "" {
		reqBody["resume_content"] = resumeContent
	}

	var resp startResponse
	err := c.postJSON("/api/ai_questions", reqBody, &resp, true)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Question == "" || resp.ChatID == "" {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return &StartResult{Question: resp.Question, ChatID: resp.ChatID}, nil
}

// NextQuestion отправляет ответ и получает следующий вопрос.
// Ответ success=false без кода ошибки - штатное завершение сессии.
func (c *Client) NextQuestion(turn TurnRequest) (*TurnResult, error) {
	if turn.Position == "" || turn.ChatID == "" {
		return nil, fmt.Errorf("%w: позиция и идентификатор сессии обязательны", ErrValidation)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"position":         turn.Position,
		"current_question": turn.CurrentQuestion,
		"user_answer":      turn.UserAnswer,
		"chat_id":          turn.ChatID,
		"code_submission":  strconv.FormatBool(turn.CodeSubmission),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("ошибка формирования запроса: %w", err)
		}
	}

	if turn.Audio != nil && len(turn.Audio.Data) > 0 {
		part, err := writer.CreateFormFile("audio", turn.Audio.Name)
		if err != nil {
			return nil, fmt.Errorf("ошибка добавления аудио: %w", err)
		}
		if _, err := part.Write(turn.Audio.Data); err != nil {
			return nil, fmt.Errorf("ошибка записи аудио: %w", err)
		}
	}

	for _, image := range turn.Images {
		part, err := writer.CreateFormFile("images", image.Name)
		if err != nil {
			return nil, fmt.Errorf("ошибка добавления изображения: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, fmt.Errorf("ошибка записи изображения: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка формирования запроса: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/ai_next_question", &buf)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.doRequest(req, true)
	if err != nil {
		return nil, err
	}

	var resp turnResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: ошибка разбора ответа: %v", ErrServer, err)
	}

	if !resp.Success {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrSessionExpired, resp.Error)
		}
		return &TurnResult{Finished: true}, nil
	}

	return &TurnResult{Question: resp.Question}, nil
}

// Evaluate запрашивает оценку интервью по полному транскрипту
func (c *Client) Evaluate(position string, questions, answers []string) (*EvaluationResult, error) {
	if position == "" || len(questions) == 0 {
		return nil, fmt.Errorf("%w: нечего оценивать", ErrValidation)
	}

	var resp evaluateResponse
	err := c.postJSON("/api/interview_evaluate", map[string]interface{}{
		"position":  position,
		"questions": questions,
		"answers":   answers,
	}, &resp, true)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Result == nil {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return resp.Result, nil
}

// Records возвращает записи прошедших интервью пользователя
func (c *Client) Records() ([]Record, error) {
	var resp recordsResponse
	err := c.getJSON("/api/interview_records", &resp, true)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return resp.Records, nil
}

// Profile возвращает профиль текущего пользователя
func (c *Client) Profile() (*User, error) {
	var resp profileResponse
	err := c.getJSON("/api/profile", &resp, true)
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.User == nil {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Error)
	}

	return resp.User, nil
}

// UploadResume загружает markdown файл резюме
func (c *Client) UploadResume(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения файла %s: %v", ErrValidation, path, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("resume", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("ошибка формирования запроса: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/upload_resume", &buf)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.doRequest(req, true)
	if err != nil {
		return err
	}

	var resp simpleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: ошибка разбора ответа: %v", ErrServer, err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrServer, serverMessage(body))
	}

	return nil
}
