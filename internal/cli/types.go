package cli

import (
	"bufio"

	"go.uber.org/zap"

	"ai-interview-client/internal/api"
	"ai-interview-client/internal/auth"
	"ai-interview-client/internal/config"
	"ai-interview-client/internal/media"
	"ai-interview-client/internal/metrics"
	"ai-interview-client/internal/session"
	"ai-interview-client/internal/storage"
)

// ViewState представляет текущий экран интерфейса.
// Один обработчик на вариант, выбор - единственный switch в Run.
type ViewState string

const (
	ViewLogin     ViewState = "login"
	ViewHome      ViewState = "home"
	ViewInterview ViewState = "interview"
	ViewAdmin     ViewState = "admin"
)

// Handler связывает пользовательский ввод с машиной состояний,
// транспортом и адаптером захвата
type Handler struct {
	scanner *bufio.Scanner
	client  *api.Client
	auth    *auth.Context
	adapter *media.Adapter
	storage *storage.Service
	config  *config.Config
	metrics *metrics.Metrics
	log     *zap.Logger

	view      ViewState
	machine   *session.Machine
	recording *media.RecordingHandle

	// pendingAudio - записанное, но еще не отправленное аудио.
	// После неудачной отправки блоб сохраняется для повтора.
	pendingAudio *media.AudioArtifact

	// pendingImages - снимки, сделанные вручную командой /snap,
	// прикладываются к следующему отправленному ответу
	pendingImages []*media.ImageArtifact

	quit bool
}
