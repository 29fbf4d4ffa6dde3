package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/auth"
	"ai-interview-client/internal/config"
	"ai-interview-client/internal/export"
	"ai-interview-client/internal/media"
	"ai-interview-client/internal/metrics"
	"ai-interview-client/internal/storage"
)

// NewHandler создает обработчик интерфейса
func NewHandler(client *api.Client, authCtx *auth.Context, adapter *media.Adapter, store *storage.Service, cfg *config.Config, m *metrics.Metrics, log *zap.Logger) *Handler {
	view := ViewLogin
	if authCtx.IsLoggedIn() {
		view = ViewHome
	}

	return &Handler{
		scanner: bufio.NewScanner(os.Stdin),
		client:  client,
		auth:    authCtx,
		adapter: adapter,
		storage: store,
		config:  cfg,
		metrics: m,
		log:     log,
		view:    view,
	}
}

// Run запускает главный цикл интерфейса
func (h *Handler) Run() {
	for !h.quit {
		switch h.view {
		case ViewLogin:
			h.handleLoginView()
		case ViewHome:
			h.handleHomeView()
		case ViewInterview:
			h.handleInterviewView()
		case ViewAdmin:
			h.handleAdminView()
		}
	}

	h.teardownInterview()
	fmt.Println("👋 До свидания!")
}

// readLine читает строку ввода, пустая строка при EOF
func (h *Handler) readLine(prompt string) string {
	fmt.Print(prompt)
	if !h.scanner.Scan() {
		h.quit = true
		return ""
	}
	return strings.TrimSpace(h.scanner.Text())
}

// forceLogout сбрасывает авторизацию после AuthError.
// Единая реакция на 401/403 для всех операций.
func (h *Handler) forceLogout() {
	h.teardownInterview()
	h.auth.Logout()
	h.view = ViewLogin
	fmt.Println("🔒 Сессия истекла. Войдите снова.")
}

// showError печатает причину ошибки, по которой пользователь
// может понять, что делать дальше
func (h *Handler) showError(err error) {
	if errors.Is(err, api.ErrAuth) {
		h.forceLogout()
		return
	}

	switch {
	case errors.Is(err, api.ErrValidation):
		fmt.Printf("❌ %v\n", err)
	case errors.Is(err, api.ErrSessionExpired):
		fmt.Printf("⌛ %v. Начните новое интервью командой /stop и /start.\n", err)
	case errors.Is(err, api.ErrServer):
		fmt.Printf("⚠️ %v. Попробуйте повторить действие.\n", err)
	case errors.Is(err, media.ErrPermissionDenied):
		fmt.Println("🚫 Доступ к устройству запрещен. Проверьте права на камеру/микрофон.")
	case errors.Is(err, media.ErrDeviceNotFound):
		fmt.Println("🔌 Устройство не найдено. Проверьте подключение камеры/микрофона.")
	case errors.Is(err, media.ErrDeviceBusy):
		fmt.Println("⏳ Устройство занято. Закройте другие программы и повторите.")
	case errors.Is(err, media.ErrUnsupported):
		fmt.Printf("🛠 Захват недоступен: %v\n", err)
	default:
		fmt.Printf("❌ %v\n", err)
	}
}

// handleLoginView обрабатывает экран входа
func (h *Handler) handleLoginView() {
	input := h.readLine("🔑 [вход] /login, /register, /help, /quit > ")

	switch input {
	case "":
		return
	case "/login":
		h.doLogin()
	case "/register":
		h.doRegister()
	case "/help":
		fmt.Println("Команды: /login - вход, /register - регистрация, /quit - выход")
	case "/quit":
		h.quit = true
	default:
		fmt.Println("Неизвестная команда. Используйте /help.")
	}
}

func (h *Handler) doLogin() {
	email := h.readLine("Email: ")
	password := h.readLine("Пароль: ")

	result, err := h.client.Login(email, password)
	if err != nil {
		h.showError(err)
		return
	}

	if err := h.auth.Login(result.Token); err != nil {
		h.showError(err)
		return
	}

	fmt.Printf("✅ Добро пожаловать, %s!\n", result.Name)
	h.view = ViewHome
}

func (h *Handler) doRegister() {
	req := api.RegisterRequest{
		Name:           h.readLine("Имя: "),
		Email:          h.readLine("Email: "),
		Phone:          h.readLine("Телефон: "),
		School:         h.readLine("Учебное заведение: "),
		Grade:          h.readLine("Курс/класс: "),
		TargetPosition: h.readLine("Целевая позиция: "),
		Password:       h.readLine("Пароль: "),
	}

	result, err := h.client.Register(req)
	if err != nil {
		h.showError(err)
		return
	}

	if err := h.auth.Login(result.Token); err != nil {
		h.showError(err)
		return
	}

	fmt.Println("✅ Регистрация успешна!")
	h.view = ViewHome
}

// handleHomeView обрабатывает главный экран
func (h *Handler) handleHomeView() {
	input := h.readLine("🏠 [меню] /interview, /records, /help > ")

	switch {
	case input == "":
		return
	case input == "/interview" || input == "/start":
		h.startInterview()
	case input == "/questions":
		h.showSampleQuestions()
	case input == "/records":
		h.showRecords()
	case input == "/export":
		h.exportRecords()
	case strings.HasPrefix(input, "/resume"):
		h.uploadResume(strings.TrimSpace(strings.TrimPrefix(input, "/resume")))
	case input == "/profile":
		h.showProfile()
	case input == "/admin":
		if !h.auth.IsAdmin() {
			fmt.Println("❌ Нужны права администратора.")
			return
		}
		h.view = ViewAdmin
	case input == "/stats":
		h.showLocalStats()
	case input == "/logout":
		h.auth.Logout()
		h.view = ViewLogin
		fmt.Println("👋 Вы вышли из аккаунта.")
	case input == "/help":
		h.showHomeHelp()
	case input == "/quit":
		h.quit = true
	default:
		fmt.Println("Неизвестная команда. Используйте /help.")
	}
}

func (h *Handler) showHomeHelp() {
	helpText := `📋 Команды главного меню:
/interview - начать новое интервью
/questions - примеры вопросов по позиции
/records   - записи прошедших интервью
/export    - выгрузить записи в Excel
/resume <путь> - загрузить markdown резюме
/profile   - мой профиль
/admin     - панель администратора
/stats     - локальная статистика клиента
/logout    - выйти из аккаунта
/quit      - выход`
	fmt.Println(helpText)
}

func (h *Handler) showSampleQuestions() {
	position := h.readLine("Позиция: ")
	questions, err := h.client.SampleQuestions(position)
	if err != nil {
		h.showError(err)
		return
	}

	fmt.Printf("📚 Примеры вопросов для позиции «%s»:\n", position)
	for i, question := range questions {
		fmt.Printf("%d. %s\n", i+1, question)
	}
}

func (h *Handler) showRecords() {
	records, err := h.client.Records()
	if err != nil {
		h.showError(err)
		return
	}

	if len(records) == 0 {
		fmt.Println("📭 Записей интервью пока нет.")
		return
	}

	fmt.Printf("📊 Найдено записей: %d\n", len(records))
	for _, record := range records {
		fmt.Printf("• #%d | %s | %s | вопросов: %d\n",
			record.ID, record.Position, record.CreatedAt, len(record.Questions))
	}
}

func (h *Handler) exportRecords() {
	records, err := h.client.Records()
	if err != nil {
		h.showError(err)
		return
	}

	if len(records) == 0 {
		fmt.Println("📭 Нечего выгружать.")
		return
	}

	path := h.readLine("Файл выгрузки [interview_records.xlsx]: ")
	if path == "" {
		path = "interview_records.xlsx"
	}

	if err := export.ExportRecords(records, path); err != nil {
		h.showError(err)
		return
	}
	fmt.Printf("✅ Выгружено записей: %d в %s\n", len(records), path)
}

func (h *Handler) uploadResume(path string) {
	if path == "" {
		path = h.readLine("Путь к markdown файлу резюме: ")
	}
	if path == "" {
		fmt.Println("❌ Путь не указан.")
		return
	}

	if err := h.client.UploadResume(path); err != nil {
		h.showError(err)
		return
	}
	fmt.Println("✅ Резюме загружено.")
}

func (h *Handler) showProfile() {
	user, err := h.client.Profile()
	if err != nil {
		h.showError(err)
		return
	}

	fmt.Printf(`👤 Профиль:
• Имя: %s
• Email: %s
• Телефон: %s
• Учебное заведение: %s
• Целевая позиция: %s
• Интервью пройдено: %d
`, user.Name, user.Email, user.Phone, user.School, user.TargetPosition, user.InterviewCount)
}

func (h *Handler) showLocalStats() {
	snapshot := h.metrics.GetSnapshot()
	fmt.Printf(`📈 Статистика клиента:
• Сессий начато: %d
• Сессий завершено: %d
• Ответов отправлено: %d
• Снимков сделано: %d
• Аудиозаписей: %d
• API вызовов: %d (успешных: %d)
`, snapshot.SessionsStarted, snapshot.SessionsFinished, snapshot.TurnsSubmitted,
		snapshot.SnapshotsCaptured, snapshot.RecordingsCaptured,
		snapshot.APICallsTotal, snapshot.APICallsSuccessful)
}

// teardownInterview освобождает ресурсы интервью при уходе с экрана.
// Камера и микрофон останавливаются независимо от отправки в полете.
func (h *Handler) teardownInterview() {
	if h.recording != nil {
		h.adapter.StopRecording(h.recording)
		h.recording = nil
	}
	h.pendingAudio = nil
	h.pendingImages = nil
	if h.machine != nil {
		h.machine.Close()
		h.machine = nil
	}
}

func (h *Handler) saveAttempt() {
	if h.machine == nil {
		return
	}

	transcript := h.machine.Transcript()
	if len(transcript) == 0 {
		return
	}

	evaluation, _ := h.machine.Evaluation()
	result := &storage.AttemptResult{
		AttemptID:           h.machine.AttemptID(),
		Position:            h.machine.Position(),
		Timestamp:           nowRFC3339(),
		QuestionsAndAnswers: transcript,
		Evaluation:          evaluation,
	}

	if err := h.storage.SaveResult(result); err != nil {
		h.log.Warn("не удалось сохранить результат", zap.Error(err))
		return
	}
	fmt.Printf("💾 Результат сохранен: interview_%s.json\n", h.machine.AttemptID())
}
