package media

import "errors"

// Классы ошибок захвата. Каждый называет причину, по которой
// пользователь может что-то исправить, вместо общего "не получилось".
var (
	// ErrPermissionDenied - нет прав на доступ к устройству
	ErrPermissionDenied = errors.New("доступ к устройству запрещен")

	// ErrDeviceNotFound - устройство отсутствует в системе
	ErrDeviceNotFound = errors.New("устройство не найдено")

	// ErrDeviceBusy - устройство занято другим процессом
	ErrDeviceBusy = errors.New("устройство занято")

	// ErrUnsupported - захват недоступен (например, нет ffmpeg)
	ErrUnsupported = errors.New("захват не поддерживается")

	// ErrNotReady - поток еще не выдал ни одного кадра
	ErrNotReady = errors.New("кадр еще не готов")

	// ErrInvalidDimensions - кадр имеет нулевые размеры
	ErrInvalidDimensions = errors.New("некорректные размеры кадра")
)
