package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-interview-client/internal/metrics"
)

// DeviceKind различает назначение устройства
type DeviceKind string

const (
	KindCamera     DeviceKind = "camera"
	KindMicrophone DeviceKind = "microphone"
)

// DeviceHandle представляет эксклюзивное владение живым потоком устройства
type DeviceHandle struct {
	mu       sync.Mutex
	kind     DeviceKind
	video    VideoStream
	audio    AudioStream
	released bool
}

// Kind возвращает назначение устройства
func (h *DeviceHandle) Kind() DeviceKind {
	return h.kind
}

// Video возвращает видеопоток для снимков, nil для микрофона
func (h *DeviceHandle) Video() VideoStream {
	return h.video
}

// Release останавливает все потоки устройства.
// Повторный вызов ничего не делает.
func (h *DeviceHandle) Release() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true

	if h.video != nil {
		h.video.Close()
	}
	if h.audio != nil {
		h.audio.Close()
	}
}

// RecordingHandle накапливает порции аудио в памяти до остановки записи
type RecordingHandle struct {
	mu     sync.Mutex
	chunks [][]byte
	done   chan struct{}
}

func (r *RecordingHandle) append(chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, chunk)
}

func (r *RecordingHandle) collect() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int
	for _, chunk := range r.chunks {
		total += len(chunk)
	}
	blob := make([]byte, 0, total)
	for _, chunk := range r.chunks {
		blob = append(blob, chunk...)
	}
	return blob
}

// Adapter владеет устройствами захвата. Не более одного активного
// захвата на назначение: повторное открытие сначала освобождает
// предыдущий поток, чтобы не утекали дорожки.
type Adapter struct {
	mu          sync.Mutex
	driver      Driver
	log         *zap.Logger
	metrics     *metrics.Metrics
	audioDevice string
	tempDir     string

	camera    *DeviceHandle
	mic       *DeviceHandle
	recording *RecordingHandle
}

// NewAdapter создает адаптер захвата
func NewAdapter(driver Driver, audioDevice string, m *metrics.Metrics, log *zap.Logger) *Adapter {
	return &Adapter{
		driver:      driver,
		log:         log,
		metrics:     m,
		audioDevice: audioDevice,
		tempDir:     os.TempDir(),
	}
}

// AcquireCamera открывает камеру и возвращает дескриптор устройства.
// Предыдущая камера освобождается перед открытием новой.
func (a *Adapter) AcquireCamera(c Constraints) (*DeviceHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.camera != nil {
		a.camera.Release()
		a.camera = nil
	}

	stream, err := a.driver.OpenCamera(c)
	if err != nil {
		return nil, err
	}

	a.camera = &DeviceHandle{kind: KindCamera, video: stream}
	a.log.Info("камера открыта",
		zap.String("device", c.Device),
		zap.Int("width", c.Width),
		zap.Int("height", c.Height),
	)
	return a.camera, nil
}

// StartRecording начинает запись аудио с микрофона.
// Данные накапливаются в памяти, ничего не сохраняется до остановки.
func (a *Adapter) StartRecording() (*RecordingHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recording != nil {
		return nil, fmt.Errorf("%w: запись уже идет", ErrDeviceBusy)
	}

	if a.mic != nil {
		a.mic.Release()
		a.mic = nil
	}

	stream, err := a.driver.OpenMicrophone(a.audioDevice)
	if err != nil {
		return nil, err
	}

	a.mic = &DeviceHandle{kind: KindMicrophone, audio: stream}
	rec := &RecordingHandle{done: make(chan struct{})}
	a.recording = rec

	go func() {
		defer close(rec.done)
		for {
			chunk, err := stream.ReadChunk()
			if len(chunk) > 0 {
				rec.append(chunk)
			}
			if err != nil {
				return
			}
		}
	}()

	a.log.Info("запись аудио начата", zap.String("device", a.audioDevice))
	return rec, nil
}

// StopRecording завершает запись и склеивает порции в один блоб.
// Пустой артефакт означает "аудио не записалось" и отдается без ошибки.
func (a *Adapter) StopRecording(rec *RecordingHandle) *AudioArtifact {
	a.mu.Lock()
	mic := a.mic
	a.mic = nil
	if a.recording == rec {
		a.recording = nil
	}
	a.mu.Unlock()

	if mic != nil {
		mic.Release()
	}
	if rec == nil {
		return &AudioArtifact{}
	}
	<-rec.done

	blob := rec.collect()
	if len(blob) == 0 {
		a.log.Warn("запись остановлена без данных")
		return &AudioArtifact{}
	}

	artifact := &AudioArtifact{
		ID:   uuid.New().String(),
		Blob: blob,
	}

	// Файл для локального прослушивания, не для загрузки
	playbackPath := filepath.Join(a.tempDir, artifact.File().Name)
	if err := os.WriteFile(playbackPath, blob, 0644); err == nil {
		artifact.PlaybackPath = playbackPath
	} else {
		a.log.Warn("не удалось сохранить файл прослушивания", zap.Error(err))
	}

	a.metrics.IncrementRecordingsCaptured()
	a.log.Info("запись аудио завершена", zap.Int("bytes", len(blob)))
	return artifact
}

// CaptureSnapshot делает снимок из видеопотока.
// Предусловия: поток уже выдал кадр и кадр имеет ненулевые размеры,
// иначе возвращается ошибка вместо пустого изображения.
func (a *Adapter) CaptureSnapshot(sink VideoStream) (*ImageArtifact, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: видеопоток не открыт", ErrNotReady)
	}

	frame, err := sink.CurrentFrame()
	if err != nil {
		return nil, err
	}

	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, frame.Width, frame.Height)
	}

	blob := make([]byte, len(frame.Data))
	copy(blob, frame.Data)

	artifact := &ImageArtifact{
		ID:     uuid.New().String(),
		Blob:   blob,
		Width:  frame.Width,
		Height: frame.Height,
	}

	a.metrics.IncrementSnapshotsCaptured()
	return artifact, nil
}

// Snapshot делает снимок с текущей камеры адаптера
func (a *Adapter) Snapshot() (*ImageArtifact, error) {
	a.mu.Lock()
	camera := a.camera
	a.mu.Unlock()

	if camera == nil {
		return nil, fmt.Errorf("%w: камера не открыта", ErrNotReady)
	}
	return a.CaptureSnapshot(camera.Video())
}

// Release освобождает дескриптор устройства
func (a *Adapter) Release(h *DeviceHandle) {
	if h == nil {
		return
	}
	h.Release()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.camera == h {
		a.camera = nil
	}
	if a.mic == h {
		a.mic = nil
	}
}

// ReleaseAll освобождает все устройства при уходе с экрана интервью
func (a *Adapter) ReleaseAll() {
	a.mu.Lock()
	camera, mic := a.camera, a.mic
	a.camera, a.mic, a.recording = nil, nil, nil
	a.mu.Unlock()

	camera.Release()
	mic.Release()
	a.log.Info("устройства захвата освобождены")
}

// HasCamera сообщает, открыта ли камера
func (a *Adapter) HasCamera() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera != nil
}

// IsRecording сообщает, идет ли запись аудио
func (a *Adapter) IsRecording() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recording != nil
}
