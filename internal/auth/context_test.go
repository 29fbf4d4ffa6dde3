package auth

import (
	"os"
	"path/filepath"
	"testing"
)

// Подписи клиентом не проверяются, поэтому тестовые токены
// собраны вручную с фиктивной подписью
const (
	header = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9."
	sig    = ".0000000000000000000000000000000000000000000"

	// {user_id: 2, email: admin@test.ru, is_admin: true, exp: 2100 год}
	adminToken = header +
		"eyJ1c2VyX2lkIjoyLCJlbWFpbCI6ImFkbWluQHRlc3QucnUiLCJpc19hZG1pbiI6dHJ1ZSwiZXhwIjo0MTAyNDQ0ODAwfQ" + sig

	// {user_id: 3, is_admin: false, exp: 2001 год}
	expiredToken = header +
		"eyJ1c2VyX2lkIjozLCJpc19hZG1pbiI6ZmFsc2UsImV4cCI6MTAwMDAwMDAwMH0" + sig
)

func tokenFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "token.json")
}

func TestLoginPersistsToken(t *testing.T) {
	file := tokenFile(t)
	ctx := NewContext(file)

	if ctx.IsLoggedIn() {
		t.Fatal("новый контекст не должен быть авторизован")
	}

	if err := ctx.Login(adminToken); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if !ctx.IsLoggedIn() {
		t.Error("после Login контекст должен быть авторизован")
	}
	if !ctx.IsAdmin() {
		t.Error("is_admin из токена не прочитан")
	}
	if ctx.Email() != "admin@test.ru" {
		t.Errorf("email: %q", ctx.Email())
	}
	if ctx.Token() != adminToken {
		t.Error("Token вернул не тот токен")
	}

	// Токен сохранен с правами только для владельца
	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("файл токена не создан: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("права файла токена: %o, ожидали 0600", info.Mode().Perm())
	}
}

func TestStoredTokenRestored(t *testing.T) {
	file := tokenFile(t)

	first := NewContext(file)
	if err := first.Login(adminToken); err != nil {
		t.Fatal(err)
	}

	// Новый контекст поднимает сессию из файла
	second := NewContext(file)
	if !second.IsLoggedIn() {
		t.Error("сохраненный токен не восстановлен")
	}
	if !second.IsAdmin() {
		t.Error("права из восстановленного токена потеряны")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	file := tokenFile(t)
	ctx := NewContext(file)
	if err := ctx.Login(adminToken); err != nil {
		t.Fatal(err)
	}

	ctx.Logout()

	if ctx.IsLoggedIn() || ctx.IsAdmin() || ctx.Token() != "" {
		t.Error("после Logout состояние должно быть пустым")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("файл токена должен быть удален")
	}

	// После выхода перезапуск не поднимает сессию
	restarted := NewContext(file)
	if restarted.IsLoggedIn() {
		t.Error("сессия не должна восстановиться после Logout")
	}
}

func TestExpiredTokenNotLoggedIn(t *testing.T) {
	ctx := NewContext(tokenFile(t))
	if err := ctx.Login(expiredToken); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if ctx.IsLoggedIn() {
		t.Error("истекший токен не дает авторизации")
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	ctx := NewContext(tokenFile(t))

	if err := ctx.Login("не-токен"); err == nil {
		t.Error("мусорный токен должен отклоняться")
	}
	if ctx.IsLoggedIn() {
		t.Error("состояние не должно меняться после ошибки")
	}
}

func TestCorruptedTokenFileIgnored(t *testing.T) {
	file := tokenFile(t)
	if err := os.WriteFile(file, []byte("{сломанный json"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext(file)
	if ctx.IsLoggedIn() {
		t.Error("испорченный файл токена должен игнорироваться")
	}
}
