package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// handleAdminView обрабатывает панель администратора
func (h *Handler) handleAdminView() {
	input := h.readLine("🛠 [админ] /stats, /users, /positions, /back > ")

	fields := strings.Fields(input)
	command := ""
	if len(fields) > 0 {
		command = fields[0]
	}

	switch command {
	case "":
		return
	case "/stats":
		h.showAdminStats()
	case "/users":
		h.showAdminUsers(fields[1:])
	case "/deluser":
		h.deleteUser(fields[1:])
	case "/mkadmin":
		h.toggleAdmin(fields[1:])
	case "/positions":
		h.showAdminPositions()
	case "/addpos":
		h.createPosition()
	case "/delpos":
		h.deletePosition(fields[1:])
	case "/interviews":
		h.showAdminInterviews(fields[1:])
	case "/back":
		h.view = ViewHome
	case "/help":
		h.showAdminHelp()
	case "/quit":
		h.quit = true
	default:
		fmt.Println("Неизвестная команда. Используйте /help.")
	}
}

func (h *Handler) showAdminHelp() {
	helpText := `📋 Команды панели администратора:
/stats           - сводная статистика платформы
/users [стр]     - список пользователей
/deluser <id>    - удалить пользователя
/mkadmin <id>    - выдать/снять права администратора
/positions       - все позиции, включая неактивные
/addpos          - добавить позицию
/delpos <id>     - удалить позицию
/interviews [стр] - интервью всех пользователей
/back            - вернуться в главное меню`
	fmt.Println(helpText)
}

func (h *Handler) showAdminStats() {
	stats, err := h.client.AdminStats()
	if err != nil {
		h.showError(err)
		return
	}

	fmt.Printf(`📈 Статистика платформы:
• Пользователей: %d (администраторов: %d)
• Интервью проведено: %d
• Позиций: %d (активных: %d)
`, stats.UserCount, stats.AdminCount, stats.InterviewCount,
		stats.PositionCount, stats.ActivePositionCount)
}

// parsePageArg извлекает номер страницы из аргументов команды
func parsePageArg(args []string) int {
	if len(args) == 0 {
		return 1
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) showAdminUsers(args []string) {
	page := parsePageArg(args)
	result, err := h.client.AdminUsers(page, 20)
	if err != nil {
		h.showError(err)
		return
	}

	fmt.Printf("👥 Пользователи (страница %d/%d, всего %d):\n",
		result.CurrentPage, result.Pages, result.Total)
	for _, user := range result.Users {
		role := "пользователь"
		if user.IsAdmin {
			role = "админ ⭐"
		}
		fmt.Printf("• #%d | %s | %s | %s | интервью: %d\n",
			user.ID, user.Name, user.Email, role, user.InterviewCount)
	}
}

// parseIDArg извлекает обязательный числовой ID из аргументов
func (h *Handler) parseIDArg(args []string, prompt string) (int, bool) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		raw = h.readLine(prompt)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		fmt.Println("❌ Нужен числовой ID.")
		return 0, false
	}
	return id, true
}

func (h *Handler) deleteUser(args []string) {
	userID, ok := h.parseIDArg(args, "ID пользователя: ")
	if !ok {
		return
	}

	confirm := h.readLine(fmt.Sprintf("Удалить пользователя #%d вместе с его интервью? (да/нет): ", userID))
	if confirm != "да" {
		fmt.Println("Отменено.")
		return
	}

	if err := h.client.AdminDeleteUser(userID); err != nil {
		h.showError(err)
		return
	}
	fmt.Printf("✅ Пользователь #%d удален.\n", userID)
}

func (h *Handler) toggleAdmin(args []string) {
	userID, ok := h.parseIDArg(args, "ID пользователя: ")
	if !ok {
		return
	}

	grant := h.readLine("Выдать права администратора? (да/нет): ") == "да"
	err := h.client.AdminUpdateUser(userID, map[string]interface{}{
		"is_admin": grant,
	})
	if err != nil {
		h.showError(err)
		return
	}

	if grant {
		fmt.Printf("✅ Пользователь #%d теперь администратор.\n", userID)
	} else {
		fmt.Printf("✅ Права администратора у #%d сняты.\n", userID)
	}
}

func (h *Handler) showAdminPositions() {
	positions, err := h.client.AdminPositions()
	if err != nil {
		h.showError(err)
		return
	}

	if len(positions) == 0 {
		fmt.Println("📭 Позиций пока нет.")
		return
	}

	fmt.Printf("📋 Позиции (%d):\n", len(positions))
	for _, position := range positions {
		state := "активна ✅"
		if !position.IsActive {
			state = "отключена ⏸"
		}
		fmt.Printf("• #%d | %s | %s\n", position.ID, position.Name, state)
		if position.Description != "" {
			fmt.Printf("  %s\n", position.Description)
		}
	}
}

func (h *Handler) createPosition() {
	name := h.readLine("Название позиции: ")
	description := h.readLine("Описание: ")

	if err := h.client.AdminCreatePosition(name, description); err != nil {
		h.showError(err)
		return
	}
	fmt.Printf("✅ Позиция «%s» создана.\n", name)
}

func (h *Handler) deletePosition(args []string) {
	positionID, ok := h.parseIDArg(args, "ID позиции: ")
	if !ok {
		return
	}

	if err := h.client.AdminDeletePosition(positionID); err != nil {
		h.showError(err)
		return
	}
	fmt.Printf("✅ Позиция #%d удалена.\n", positionID)
}

func (h *Handler) showAdminInterviews(args []string) {
	page := parsePageArg(args)
	records, total, err := h.client.AdminInterviews(page, 20)
	if err != nil {
		h.showError(err)
		return
	}

	fmt.Printf("📊 Интервью платформы (страница %d, всего %d):\n", page, total)
	for _, record := range records {
		fmt.Printf("• #%d | %s | %s | вопросов: %d\n",
			record.ID, record.Position, record.CreatedAt, len(record.Questions))
	}
}
