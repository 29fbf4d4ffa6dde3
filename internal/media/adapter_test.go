package media

import (
	"errors"
	"io"
	"sync"
	"testing"

	"go.uber.org/zap"

	"ai-interview-client/internal/metrics"
)

// fakeVideoStream отдает заранее заданный кадр
type fakeVideoStream struct {
	mu     sync.Mutex
	frame  *Frame
	err    error
	closed int
}

func (s *fakeVideoStream) CurrentFrame() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.frame, nil
}

func (s *fakeVideoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeVideoStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeAudioStream отдает порции из канала, io.EOF после закрытия
type fakeAudioStream struct {
	chunks chan []byte
	once   sync.Once
}

func newFakeAudioStream() *fakeAudioStream {
	return &fakeAudioStream{chunks: make(chan []byte, 16)}
}

func (s *fakeAudioStream) ReadChunk() ([]byte, error) {
	chunk, ok := <-s.chunks
	if !ok {
		return nil, io.EOF
	}
	return chunk, nil
}

func (s *fakeAudioStream) Close() error {
	s.once.Do(func() { close(s.chunks) })
	return nil
}

// fakeDriver выдает подготовленные потоки
type fakeDriver struct {
	mu        sync.Mutex
	video     *fakeVideoStream
	audio     *fakeAudioStream
	cameraErr error
	micErr    error

	cameraOpens int
	micOpens    int
}

func (d *fakeDriver) OpenCamera(c Constraints) (VideoStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cameraOpens++
	if d.cameraErr != nil {
		return nil, d.cameraErr
	}
	return d.video, nil
}

func (d *fakeDriver) OpenMicrophone(device string) (AudioStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.micOpens++
	if d.micErr != nil {
		return nil, d.micErr
	}
	return d.audio, nil
}

func newTestAdapter(t *testing.T, driver Driver) *Adapter {
	t.Helper()
	a := NewAdapter(driver, "default", metrics.NewMetrics(), zap.NewNop())
	a.tempDir = t.TempDir()
	return a
}

func validFrame() *Frame {
	return &Frame{Data: []byte{0xFF, 0xD8, 0xFF, 0xD9}, Width: 640, Height: 480}
}

func TestAcquireCameraReleasesPrevious(t *testing.T) {
	first := &fakeVideoStream{frame: validFrame()}
	driver := &fakeDriver{video: first}
	a := newTestAdapter(t, driver)

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatalf("AcquireCamera: %v", err)
	}
	if !a.HasCamera() {
		t.Fatal("камера должна быть открыта")
	}

	second := &fakeVideoStream{frame: validFrame()}
	driver.mu.Lock()
	driver.video = second
	driver.mu.Unlock()

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatalf("повторный AcquireCamera: %v", err)
	}

	// Старый поток освобожден перед открытием нового
	if first.closeCount() != 1 {
		t.Errorf("первый поток закрыт %d раз, ожидали 1", first.closeCount())
	}
	if second.closeCount() != 0 {
		t.Errorf("второй поток не должен быть закрыт")
	}
	if driver.cameraOpens != 2 {
		t.Errorf("открытий камеры: %d, ожидали 2", driver.cameraOpens)
	}
}

func TestAcquireCameraFailure(t *testing.T) {
	driver := &fakeDriver{cameraErr: ErrDeviceNotFound}
	a := newTestAdapter(t, driver)

	_, err := a.AcquireCamera(Constraints{Device: "/dev/video9", Width: 640, Height: 480})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("ожидали ErrDeviceNotFound, получили %v", err)
	}
	if a.HasCamera() {
		t.Error("камера не должна числиться открытой после ошибки")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	stream := &fakeVideoStream{frame: validFrame()}
	driver := &fakeDriver{video: stream}
	a := newTestAdapter(t, driver)

	handle, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480})
	if err != nil {
		t.Fatal(err)
	}

	a.Release(handle)
	a.Release(handle)
	handle.Release()

	if stream.closeCount() != 1 {
		t.Errorf("поток закрыт %d раз, ожидали 1", stream.closeCount())
	}
	if a.HasCamera() {
		t.Error("камера должна быть снята с учета")
	}

	// Release(nil) не паникует
	a.Release(nil)
	var nilHandle *DeviceHandle
	nilHandle.Release()
}

func TestSnapshotWithoutCamera(t *testing.T) {
	a := newTestAdapter(t, &fakeDriver{})

	if _, err := a.Snapshot(); !errors.Is(err, ErrNotReady) {
		t.Errorf("снимок без камеры: %v, ожидали ErrNotReady", err)
	}
	if _, err := a.CaptureSnapshot(nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("снимок из nil потока: %v, ожидали ErrNotReady", err)
	}
}

func TestSnapshotBeforeFirstFrame(t *testing.T) {
	stream := &fakeVideoStream{err: ErrNotReady}
	driver := &fakeDriver{video: stream}
	a := newTestAdapter(t, driver)

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Snapshot(); !errors.Is(err, ErrNotReady) {
		t.Errorf("снимок до первого кадра: %v, ожидали ErrNotReady", err)
	}
}

func TestSnapshotInvalidDimensions(t *testing.T) {
	stream := &fakeVideoStream{frame: &Frame{Data: []byte{1}, Width: 0, Height: 480}}
	driver := &fakeDriver{video: stream}
	a := newTestAdapter(t, driver)

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Snapshot(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("нулевая ширина: %v, ожидали ErrInvalidDimensions", err)
	}
}

func TestSnapshotCopiesFrame(t *testing.T) {
	frame := validFrame()
	stream := &fakeVideoStream{frame: frame}
	driver := &fakeDriver{video: stream}
	a := newTestAdapter(t, driver)

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatal(err)
	}

	artifact, err := a.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if artifact.Width != 640 || artifact.Height != 480 {
		t.Errorf("размеры снимка: %dx%d", artifact.Width, artifact.Height)
	}
	if artifact.ID == "" {
		t.Error("у снимка должен быть ID")
	}

	// Снимок не делит память с кадром потока
	frame.Data[0] = 0x00
	if artifact.Blob[0] != 0xFF {
		t.Error("снимок должен копировать данные кадра")
	}
}

func TestRecordingCollectsChunks(t *testing.T) {
	audio := newFakeAudioStream()
	driver := &fakeDriver{audio: audio}
	a := newTestAdapter(t, driver)

	rec, err := a.StartRecording()
	if err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if !a.IsRecording() {
		t.Fatal("запись должна числиться активной")
	}

	audio.chunks <- []byte{1, 2}
	audio.chunks <- []byte{3}

	artifact := a.StopRecording(rec)
	if artifact.Empty() {
		t.Fatal("артефакт не должен быть пустым")
	}
	if string(artifact.Blob) != string([]byte{1, 2, 3}) {
		t.Errorf("блоб: %v", artifact.Blob)
	}
	if artifact.ID == "" {
		t.Error("у артефакта должен быть ID")
	}
	if a.IsRecording() {
		t.Error("запись должна быть снята с учета")
	}
}

func TestEmptyRecordingIsNotError(t *testing.T) {
	audio := newFakeAudioStream()
	driver := &fakeDriver{audio: audio}
	a := newTestAdapter(t, driver)

	rec, err := a.StartRecording()
	if err != nil {
		t.Fatal(err)
	}

	// Остановка без единой порции данных
	artifact := a.StopRecording(rec)
	if artifact == nil {
		t.Fatal("артефакт не должен быть nil")
	}
	if !artifact.Empty() {
		t.Errorf("артефакт должен быть пустым: %v", artifact.Blob)
	}
}

func TestSecondRecordingRejected(t *testing.T) {
	audio := newFakeAudioStream()
	driver := &fakeDriver{audio: audio}
	a := newTestAdapter(t, driver)

	rec, err := a.StartRecording()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.StartRecording(); !errors.Is(err, ErrDeviceBusy) {
		t.Errorf("вторая запись: %v, ожидали ErrDeviceBusy", err)
	}

	a.StopRecording(rec)

	// После остановки запись можно начать снова
	driver.mu.Lock()
	driver.audio = newFakeAudioStream()
	driver.mu.Unlock()
	rec2, err := a.StartRecording()
	if err != nil {
		t.Fatalf("запись после остановки: %v", err)
	}
	a.StopRecording(rec2)
}

func TestStartRecordingFailure(t *testing.T) {
	driver := &fakeDriver{micErr: ErrPermissionDenied}
	a := newTestAdapter(t, driver)

	if _, err := a.StartRecording(); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("ожидали ErrPermissionDenied, получили %v", err)
	}
	if a.IsRecording() {
		t.Error("запись не должна числиться активной после ошибки")
	}
}

func TestReleaseAll(t *testing.T) {
	video := &fakeVideoStream{frame: validFrame()}
	audio := newFakeAudioStream()
	driver := &fakeDriver{video: video, audio: audio}
	a := newTestAdapter(t, driver)

	if _, err := a.AcquireCamera(Constraints{Device: "/dev/video0", Width: 640, Height: 480}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.StartRecording(); err != nil {
		t.Fatal(err)
	}

	a.ReleaseAll()

	if a.HasCamera() || a.IsRecording() {
		t.Error("после ReleaseAll устройств быть не должно")
	}
	if video.closeCount() != 1 {
		t.Errorf("видеопоток закрыт %d раз, ожидали 1", video.closeCount())
	}
}

func TestAudioArtifactEmpty(t *testing.T) {
	var nilArtifact *AudioArtifact
	if !nilArtifact.Empty() {
		t.Error("nil артефакт должен быть пустым")
	}
	if !(&AudioArtifact{}).Empty() {
		t.Error("артефакт без блоба должен быть пустым")
	}
	if (&AudioArtifact{Blob: []byte{1}}).Empty() {
		t.Error("артефакт с данными не должен быть пустым")
	}
}
