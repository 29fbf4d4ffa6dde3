package api

import "errors"

// Классы ошибок транспорта. Вызывающий код различает их через errors.Is,
// детали сервера добавляются оберткой fmt.Errorf("%w: ...").
var (
	// ErrValidation - обязательные данные отсутствуют, запрос не отправлялся
	ErrValidation = errors.New("данные не прошли проверку")

	// ErrAuth - токен отсутствует, истек или прав недостаточно (401/403)
	ErrAuth = errors.New("требуется авторизация")

	// ErrSessionExpired - сервер больше не знает сессию интервью
	ErrSessionExpired = errors.New("сессия интервью истекла")

	// ErrServer - сетевая ошибка или ответ сервера не 2xx
	ErrServer = errors.New("ошибка сервера")
)
