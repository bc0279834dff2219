package clients

import (
	"sync"
	"time"
	"tourvisto/internal/providers"
)

// local mocks to avoid import cycle with testutil

type clientTestLogger struct{}

func (m *clientTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *clientTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *clientTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *clientTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *clientTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *clientTestLogger) Close()                                                  {}

type clientTestMetrics struct {
	mu       sync.Mutex
	breakers map[string]float64
	upstream map[string]int
}

func newClientTestMetrics() *clientTestMetrics {
	return &clientTestMetrics{breakers: map[string]float64{}, upstream: map[string]int{}}
}

func (m *clientTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *clientTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *clientTestMetrics) IncCacheHits()                                    {}
func (m *clientTestMetrics) IncCacheMisses()                                  {}
func (m *clientTestMetrics) IncGenerationsTotal(_ string)                     {}
func (m *clientTestMetrics) ObserveUpstreamDuration(name string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstream[name]++
}
func (m *clientTestMetrics) SetCircuitBreakerState(name string, state float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakers[name] = state
}

func (m *clientTestMetrics) breakerState(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.breakers[name]
}
