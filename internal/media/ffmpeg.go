package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FFmpegDriver захватывает камеру и микрофон через внешний ffmpeg:
// видео как поток MJPEG кадров, аудио как WebM поток на stdout.
type FFmpegDriver struct {
	path string
	log  *zap.Logger
}

// NewFFmpegDriver создает драйвер захвата
func NewFFmpegDriver(path string, log *zap.Logger) *FFmpegDriver {
	return &FFmpegDriver{path: path, log: log}
}

// startupGrace - время, за которое ffmpeg успевает упасть на
// недоступном устройстве до того, как мы отдадим поток наружу
const startupGrace = 300 * time.Millisecond

// OpenCamera запускает ffmpeg с выводом MJPEG в pipe
func (d *FFmpegDriver) OpenCamera(c Constraints) (VideoStream, error) {
	args := []string{
		"-f", "v4l2",
		"-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"-i", c.Device,
		"-f", "mjpeg",
		"-q:v", "5",
		"pipe:1",
	}

	cmd := exec.Command(d.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: ffmpeg не найден", ErrUnsupported)
		}
		return nil, fmt.Errorf("ошибка запуска ffmpeg: %w", err)
	}

	stream := &mjpegStream{
		cmd:    cmd,
		stderr: &stderr,
		exited: make(chan struct{}),
	}
	go stream.readLoop(stdout)
	go func() {
		cmd.Wait()
		close(stream.exited)
	}()

	select {
	case <-stream.exited:
		return nil, classifyCaptureError(stderr.String())
	case <-time.After(startupGrace):
	}

	d.log.Debug("ffmpeg видеопоток запущен", zap.String("device", c.Device))
	return stream, nil
}

// OpenMicrophone запускает ffmpeg с выводом WebM аудио в pipe
func (d *FFmpegDriver) OpenMicrophone(device string) (AudioStream, error) {
	args := []string{
		"-f", "alsa",
		"-i", device,
		"-c:a", "libopus",
		"-f", "webm",
		"pipe:1",
	}

	cmd := exec.Command(d.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ошибка создания pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: ffmpeg не найден", ErrUnsupported)
		}
		return nil, fmt.Errorf("ошибка запуска ffmpeg: %w", err)
	}

	stream := &webmAudioStream{
		cmd:    cmd,
		stdout: stdout,
		stderr: &stderr,
		exited: make(chan struct{}),
	}
	go func() {
		cmd.Wait()
		close(stream.exited)
	}()

	select {
	case <-stream.exited:
		return nil, classifyCaptureError(stderr.String())
	case <-time.After(startupGrace):
	}

	d.log.Debug("ffmpeg аудиопоток запущен", zap.String("device", device))
	return stream, nil
}

// classifyCaptureError превращает stderr ffmpeg в причину отказа
func classifyCaptureError(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted"):
		return fmt.Errorf("%w: проверьте права на устройство", ErrPermissionDenied)
	case strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "no such device"):
		return fmt.Errorf("%w: проверьте подключение устройства", ErrDeviceNotFound)
	case strings.Contains(lower, "device or resource busy") ||
		strings.Contains(lower, "resource busy"):
		return fmt.Errorf("%w: закройте другие программы, использующие устройство", ErrDeviceBusy)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, lastLine(stderr))
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// mjpegStream разбирает поток MJPEG и хранит последний целый кадр
type mjpegStream struct {
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	exited chan struct{}

	mu     sync.Mutex
	frame  *Frame
	closed bool
}

// Маркеры границ JPEG кадра
var (
	jpegStart = []byte{0xFF, 0xD8}
	jpegEnd   = []byte{0xFF, 0xD9}
)

func (s *mjpegStream) readLoop(r io.Reader) {
	var pending []byte
	buf := make([]byte, 32*1024)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = s.extractFrames(pending)
		}
		if err != nil {
			return
		}
	}
}

// extractFrames вырезает целые JPEG кадры из накопленных данных
// и возвращает необработанный остаток
func (s *mjpegStream) extractFrames(pending []byte) []byte {
	for {
		start := bytes.Index(pending, jpegStart)
		if start < 0 {
			return nil
		}
		end := bytes.Index(pending[start+2:], jpegEnd)
		if end < 0 {
			return pending[start:]
		}

		frameEnd := start + 2 + end + 2
		data := make([]byte, frameEnd-start)
		copy(data, pending[start:frameEnd])
		s.storeFrame(data)

		pending = pending[frameEnd:]
	}
}

func (s *mjpegStream) storeFrame(data []byte) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = &Frame{Data: data, Width: cfg.Width, Height: cfg.Height}
}

// CurrentFrame возвращает последний готовый кадр
func (s *mjpegStream) CurrentFrame() (*Frame, error) {
	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()

	if frame != nil {
		return frame, nil
	}

	select {
	case <-s.exited:
		return nil, classifyCaptureError(s.stderr.String())
	default:
		return nil, ErrNotReady
	}
}

// Close останавливает процесс захвата
func (s *mjpegStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	<-s.exited
	return nil
}

// webmAudioStream читает порции WebM аудио со stdout ffmpeg
type webmAudioStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	exited chan struct{}

	mu     sync.Mutex
	closed bool
}

// ReadChunk блокируется до следующей порции аудио
func (s *webmAudioStream) ReadChunk() ([]byte, error) {
	buf := make([]byte, 4096)
	n, err := s.stdout.Read(buf)
	if n > 0 {
		return buf[:n], err
	}
	return nil, err
}

// Close останавливает процесс захвата
func (s *webmAudioStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	<-s.exited
	return nil
}
