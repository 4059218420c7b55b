package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for requests and pipeline runs.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	analysisCount map[string]int64
	stageTotalMS  map[string]float64
	stageRuns     map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		analysisCount: make(map[string]int64),
		stageTotalMS:  make(map[string]float64),
		stageRuns:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAnalysis counts finished pipeline runs by terminal status.
func (m *Metrics) RecordAnalysis(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysisCount[status]++
}

// RecordStage accumulates per-stage processing time.
func (m *Metrics) RecordStage(agent string, processingMS float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageTotalMS[agent] += processingMS
	m.stageRuns[agent]++
}

// StageAverages returns mean processing time per stage in milliseconds.
func (m *Metrics) StageAverages() map[string]float64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.stageTotalMS))
	for agent, total := range m.stageTotalMS {
		if runs := m.stageRuns[agent]; runs > 0 {
			out[agent] = total / float64(runs)
		}
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
