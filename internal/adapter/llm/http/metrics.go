package http

import (
	"sync"
	"time"
)

// Metrics tracks aggregate statistics for API calls.
type Metrics interface {
	// RecordRequest records an API request
	RecordRequest(model string)

	// RecordDuration records request duration
	RecordDuration(model string, duration time.Duration)

	// RecordTokens records token usage
	RecordTokens(model string, tokensIn, tokensOut int)

	// RecordError records an error
	RecordError(model string, errType ErrorType)

	// GetStats returns current statistics
	GetStats() Stats
}

// Stats contains aggregate statistics.
type Stats struct {
	TotalRequests  int
	TotalTokensIn  int
	TotalTokensOut int
	TotalDuration  time.Duration
	ErrorCount     int
	ByModel        map[string]ModelStats
}

// ModelStats contains per-model statistics.
type ModelStats struct {
	Requests  int
	TokensIn  int
	TokensOut int
	Duration  time.Duration
	Errors    int
}

// DefaultMetrics provides in-memory metrics tracking.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates a metrics tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		stats: Stats{
			ByModel: make(map[string]ModelStats),
		},
	}
}

// RecordRequest increments request counters.
func (m *DefaultMetrics) RecordRequest(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalRequests++

	ms := m.stats.ByModel[model]
	ms.Requests++
	m.stats.ByModel[model] = ms
}

// RecordDuration records API call duration.
func (m *DefaultMetrics) RecordDuration(model string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalDuration += duration

	ms := m.stats.ByModel[model]
	ms.Duration += duration
	m.stats.ByModel[model] = ms
}

// RecordTokens records token usage.
func (m *DefaultMetrics) RecordTokens(model string, tokensIn, tokensOut int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalTokensIn += tokensIn
	m.stats.TotalTokensOut += tokensOut

	ms := m.stats.ByModel[model]
	ms.TokensIn += tokensIn
	ms.TokensOut += tokensOut
	m.stats.ByModel[model] = ms
}

// RecordError records an error.
func (m *DefaultMetrics) RecordError(model string, errType ErrorType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ErrorCount++

	ms := m.stats.ByModel[model]
	ms.Errors++
	m.stats.ByModel[model] = ms
}

// GetStats returns a copy of current statistics.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statsCopy := Stats{
		TotalRequests:  m.stats.TotalRequests,
		TotalTokensIn:  m.stats.TotalTokensIn,
		TotalTokensOut: m.stats.TotalTokensOut,
		TotalDuration:  m.stats.TotalDuration,
		ErrorCount:     m.stats.ErrorCount,
		ByModel:        make(map[string]ModelStats),
	}

	for k, v := range m.stats.ByModel {
		statsCopy.ByModel[k] = v
	}

	return statsCopy
}
