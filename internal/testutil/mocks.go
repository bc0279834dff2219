package testutil

import (
	"context"
	"sync"
	"time"
	"tourvisto/internal/clients"
	"tourvisto/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface without expiry.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts generation outcomes.
type MockMetrics struct {
	mu          sync.Mutex
	Generations map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (m *MockMetrics) IncCacheHits()                                     {}
func (m *MockMetrics) IncCacheMisses()                                   {}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) SetCircuitBreakerState(_ string, _ float64)        {}
func (m *MockMetrics) IncGenerationsTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Generations == nil {
		m.Generations = make(map[string]int)
	}
	m.Generations[outcome]++
}

// MockGenerator implements clients.GenerationClientInterface.
type MockGenerator struct {
	mu      sync.Mutex
	Prompts []string
	Text    string
	Err     error
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.Text, m.Err
}

// MockImages implements clients.ImageSearchInterface.
type MockImages struct {
	mu      sync.Mutex
	Queries []string
	URLs    []*string
	Err     error
}

func (m *MockImages) SearchPhotos(_ context.Context, query string, _ int) ([]*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	return m.URLs, m.Err
}

// MockIdentityProvider implements clients.IdentityProviderInterface for a
// fixed set of JWT -> account pairs.
type MockIdentityProvider struct {
	mu             sync.Mutex
	Accounts       map[string]*clients.Account
	AccessToken    string
	AccountCalls   int
	DeletedTokens  []string
	DeleteErr      error
	AccountLatency time.Duration
}

func (m *MockIdentityProvider) GetAccount(_ context.Context, jwt string) (*clients.Account, error) {
	m.mu.Lock()
	m.AccountCalls++
	acc, ok := m.Accounts[jwt]
	latency := m.AccountLatency
	m.mu.Unlock()

	if latency > 0 {
		time.Sleep(latency)
	}
	if !ok {
		return nil, clients.ErrUnauthorized
	}
	c := *acc
	return &c, nil
}

func (m *MockIdentityProvider) GetSession(_ context.Context, _ string) (*clients.Session, error) {
	return &clients.Session{ID: "current", Provider: "google", ProviderAccessToken: m.AccessToken}, nil
}

func (m *MockIdentityProvider) DeleteSession(_ context.Context, jwt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletedTokens = append(m.DeletedTokens, jwt)
	return m.DeleteErr
}

func (m *MockIdentityProvider) OAuthURL(successURL, failureURL string) string {
	return "https://identity.test/oauth?success=" + successURL + "&failure=" + failureURL
}

// MockAvatars implements clients.AvatarProviderInterface.
type MockAvatars struct {
	URL string
	Err error
}

func (m *MockAvatars) GetPicture(_ context.Context, _ string) (string, error) {
	return m.URL, m.Err
}
