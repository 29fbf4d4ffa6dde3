package media

import (
	"errors"
	"testing"
)

func TestClassifyCaptureError(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{
			name:   "нет прав",
			stderr: "/dev/video0: Permission denied",
			want:   ErrPermissionDenied,
		},
		{
			name:   "операция запрещена",
			stderr: "ALSA lib: Operation not permitted",
			want:   ErrPermissionDenied,
		},
		{
			name:   "устройства нет",
			stderr: "/dev/video9: No such file or directory",
			want:   ErrDeviceNotFound,
		},
		{
			name:   "устройство отключено",
			stderr: "ioctl(VIDIOC_QUERYCAP): No such device",
			want:   ErrDeviceNotFound,
		},
		{
			name:   "устройство занято",
			stderr: "/dev/video0: Device or resource busy",
			want:   ErrDeviceBusy,
		},
		{
			name:   "непонятная ошибка",
			stderr: "Unknown input format: 'v4l2'",
			want:   ErrUnsupported,
		},
		{
			name:   "пустой stderr",
			stderr: "",
			want:   ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyCaptureError(tt.stderr)
			if !errors.Is(err, tt.want) {
				t.Errorf("classifyCaptureError(%q) = %v, ожидали %v", tt.stderr, err, tt.want)
			}
		})
	}
}

func TestExtractFramesKeepsPartialTail(t *testing.T) {
	s := &mjpegStream{exited: make(chan struct{})}

	// Начало кадра без конца остается в остатке
	partial := []byte{0x00, 0xFF, 0xD8, 0x01, 0x02}
	rest := s.extractFrames(partial)
	if len(rest) != 4 || rest[0] != 0xFF || rest[1] != 0xD8 {
		t.Errorf("остаток: %v", rest)
	}

	// Мусор без маркера начала отбрасывается
	if rest := s.extractFrames([]byte{0x01, 0x02, 0x03}); rest != nil {
		t.Errorf("мусор должен отбрасываться: %v", rest)
	}

	// Целый (пусть и некорректный как JPEG) кадр вырезается из потока
	whole := []byte{0xFF, 0xD8, 0xAA, 0xFF, 0xD9, 0xBB}
	if rest := s.extractFrames(whole); rest != nil {
		t.Errorf("после вырезанного кадра остаток без маркеров: %v", rest)
	}
}

func TestCurrentFrameBeforeFirstFrame(t *testing.T) {
	s := &mjpegStream{exited: make(chan struct{})}

	if _, err := s.CurrentFrame(); !errors.Is(err, ErrNotReady) {
		t.Errorf("до первого кадра: %v, ожидали ErrNotReady", err)
	}
}
