package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	SessionsStarted    int64
	SessionsFinished   int64
	TurnsSubmitted     int64
	SnapshotsCaptured  int64
	RecordingsCaptured int64
	APICallsTotal      int64
	APICallsSuccessful int64
	LastUpdateTime     time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsFinished++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTurnsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnsSubmitted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSnapshotsCaptured() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotsCaptured++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementRecordingsCaptured() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordingsCaptured++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SessionsStarted:    m.SessionsStarted,
		SessionsFinished:   m.SessionsFinished,
		TurnsSubmitted:     m.TurnsSubmitted,
		SnapshotsCaptured:  m.SnapshotsCaptured,
		RecordingsCaptured: m.RecordingsCaptured,
		APICallsTotal:      m.APICallsTotal,
		APICallsSuccessful: m.APICallsSuccessful,
		LastUpdateTime:     m.LastUpdateTime,
	}
}
