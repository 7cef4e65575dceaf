package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the HTTP tier.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
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

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}

// StageMetric accumulates counters for one pipeline stage within a run.
type StageMetric struct {
	Attempts     int           `json:"attempts"`
	Duration     time.Duration `json:"duration"`
	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
}

// RunMetrics is an explicit per-run accumulator. The orchestrator owns one
// instance per workflow run and returns it with the result; callers
// aggregate across runs at their own discretion. No agent keeps counters
// of its own. Recording is safe for concurrent callers: the collaborator
// prefetch runs two goroutines that may both report a degraded lookup.
type RunMetrics struct {
	mu              sync.Mutex
	Stages          map[string]*StageMetric `json:"stages"`
	DegradedLookups int                     `json:"degraded_lookups"`
}

// NewRunMetrics initializes an empty accumulator.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{Stages: make(map[string]*StageMetric)}
}

// stageFor returns the accumulator for a stage, creating it on first use.
// Callers must hold m.mu.
func (m *RunMetrics) stageFor(stage string) *StageMetric {
	if m.Stages == nil {
		m.Stages = make(map[string]*StageMetric)
	}
	sm, ok := m.Stages[stage]
	if !ok {
		sm = &StageMetric{}
		m.Stages[stage] = sm
	}
	return sm
}

// RecordAttempt adds one stage attempt with its duration.
func (m *RunMetrics) RecordAttempt(stage string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm := m.stageFor(stage)
	sm.Attempts++
	sm.Duration += duration
}

// AddTokens accumulates reasoning-service token usage for a stage.
func (m *RunMetrics) AddTokens(stage string, inputTokens, outputTokens int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sm := m.stageFor(stage)
	sm.InputTokens += inputTokens
	sm.OutputTokens += outputTokens
}

// RecordDegradedLookup counts a collaborator lookup that was substituted
// with empty context.
func (m *RunMetrics) RecordDegradedLookup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DegradedLookups++
}
