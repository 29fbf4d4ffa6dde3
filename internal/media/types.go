package media

import "fmt"

// Constraints представляет параметры открытия камеры
type Constraints struct {
	Device string
	Width  int
	Height int
}

// Frame представляет один кадр видеопотока в формате JPEG
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// FileInfo представляет файл-обертку артефакта для загрузки на сервер
type FileInfo struct {
	Name        string
	ContentType string
	Data        []byte
}

// AudioArtifact представляет записанное аудио.
// Артефакт неизменяем после создания, пустой артефакт означает
// "аудио ответа нет" и не является ошибкой.
type AudioArtifact struct {
	ID           string
	Blob         []byte
	PlaybackPath string
}

// Empty сообщает, было ли что-то записано
func (a *AudioArtifact) Empty() bool {
	return a == nil || len(a.Blob) == 0
}

// File возвращает файл-обертку для multipart загрузки
func (a *AudioArtifact) File() FileInfo {
	return FileInfo{
		Name:        fmt.Sprintf("audio_%s.webm", a.ID),
		ContentType: "audio/webm",
		Data:        a.Blob,
	}
}

// ImageArtifact представляет снимок с камеры
type ImageArtifact struct {
	ID     string
	Blob   []byte
	Width  int
	Height int
}

// File возвращает файл-обертку для multipart загрузки
func (a *ImageArtifact) File() FileInfo {
	return FileInfo{
		Name:        fmt.Sprintf("image_%s.jpg", a.ID),
		ContentType: "image/jpeg",
		Data:        a.Blob,
	}
}
