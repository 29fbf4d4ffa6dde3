package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims представляет полезную нагрузку токена сервера
type Claims struct {
	UserID  int    `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Context хранит авторизационное состояние клиента.
// Единственный путь обновления - Login/Logout, остальные
// компоненты получают Context при создании и только читают его.
type Context struct {
	mu        sync.RWMutex
	tokenFile string
	token     string
	claims    *Claims
}

// storedSession представляет сохраненное состояние в файле токена
type storedSession struct {
	Token string `json:"token"`
}

// NewContext создает контекст и загружает сохраненный токен, если он есть
func NewContext(tokenFile string) *Context {
	ctx := &Context{tokenFile: tokenFile}
	ctx.loadStored()
	return ctx
}

func (c *Context) loadStored() {
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return
	}
	if stored.Token == "" {
		return
	}

	claims, err := parseClaims(stored.Token)
	if err != nil {
		return
	}

	c.token = stored.Token
	c.claims = claims
}

// parseClaims разбирает токен без проверки подписи.
// Секрет знает только сервер, клиенту нужны лишь exp и is_admin.
func parseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора токена: %w", err)
	}
	return claims, nil
}

// Login сохраняет токен после успешного входа или регистрации
func (c *Context) Login(token string) error {
	claims, err := parseClaims(token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	c.claims = claims

	data, err := json.Marshal(storedSession{Token: token})
	if err != nil {
		return fmt.Errorf("ошибка сериализации токена: %w", err)
	}

	err = os.WriteFile(c.tokenFile, data, 0600)
	if err != nil {
		return fmt.Errorf("ошибка записи файла токена: %w", err)
	}

	return nil
}

// Logout очищает токен в памяти и на диске
func (c *Context) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.claims = nil
	os.Remove(c.tokenFile)
}

// Token возвращает текущий токен или пустую строку
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsLoggedIn сообщает, есть ли действующий (не истекший) токен
func (c *Context) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" || c.claims == nil {
		return false
	}

	if c.claims.ExpiresAt != nil && c.claims.ExpiresAt.Before(time.Now()) {
		return false
	}

	return true
}

// IsAdmin сообщает, есть ли у пользователя права администратора
func (c *Context) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.claims != nil && c.claims.IsAdmin
}

// Email возвращает email пользователя из токена
func (c *Context) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.claims == nil {
		return ""
	}
	return c.claims.Email
}
