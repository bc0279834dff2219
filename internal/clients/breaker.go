package clients

import (
	"errors"
	"fmt"
	gobreaker "github.com/sony/gobreaker/v2"
	"time"
	"tourvisto/internal/providers"
)

// ErrCircuitOpen is returned instead of calling an upstream that keeps failing.
var ErrCircuitOpen = errors.New("upstream temporarily unavailable")

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// newBreaker opens after 5 consecutive failures, or a 60% failure rate over at
// least 10 requests, and probes again after 30 seconds.
func newBreaker[T any](name string, logger providers.Logger, metrics providers.MetricsProviderInterface) *gobreaker.CircuitBreaker[T] {
	metrics.SetCircuitBreakerState(name, 0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(providers.TypeApp, "Circuit breaker %s: %s -> %s", name, from, to)
			metrics.SetCircuitBreakerState(name, stateToFloat(to))
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker[T], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%s: %w", cb.Name(), ErrCircuitOpen)
	}
	return res, err
}
