package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

// breakerTransport wraps the backend transport with a circuit breaker so a
// dead backend fails fast instead of tying up every request for the full
// timeout. It never retries; callers see the transport error unchanged.
type breakerTransport struct {
	next http.RoundTripper
	cb   circuitbreaker.CircuitBreaker[any]
}

// NewBreakerTransport returns a RoundTripper protected by a circuit breaker:
// 60% failure rate over min 5 requests in a 10s window opens it, 30s delay
// before half-open, one success closes it again.
func NewBreakerTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "backend",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			metrics.CircuitBreakerStateChanges.WithLabelValues("backend", e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues("backend").Set(stateToFloat(e.NewState))
		}).
		Build()

	return &breakerTransport{next: next, cb: cb}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.cb.TryAcquirePermit() {
		return nil, fmt.Errorf("backend circuit breaker open: %w", circuitbreaker.ErrOpen)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.cb.RecordError(err)
		return nil, err
	}

	// Only server-side failures count against the breaker. Auth and
	// validation responses are healthy backend behaviour.
	if resp.StatusCode >= 500 {
		t.cb.RecordError(fmt.Errorf("backend returned status %d", resp.StatusCode))
	} else {
		t.cb.RecordSuccess()
	}
	return resp, nil
}
