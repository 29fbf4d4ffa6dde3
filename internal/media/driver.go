package media

// Driver скрывает платформенный механизм захвата.
// Реализация обязана возвращать ошибки из errors.go, чтобы
// адаптер и интерфейс могли назвать пользователю причину.
type Driver interface {
	OpenCamera(c Constraints) (VideoStream, error)
	OpenMicrophone(device string) (AudioStream, error)
}

// VideoStream представляет живой видеопоток камеры
type VideoStream interface {
	// CurrentFrame возвращает последний готовый кадр.
	// До первого кадра возвращается ErrNotReady.
	CurrentFrame() (*Frame, error)
	Close() error
}

// AudioStream представляет живой аудиопоток микрофона
type AudioStream interface {
	// ReadChunk блокируется до следующей порции данных, io.EOF по завершении
	ReadChunk() ([]byte, error)
	Close() error
}
