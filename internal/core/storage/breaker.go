package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/skshmgpt/folio/internal/core/engagement"
	"github.com/skshmgpt/folio/internal/telemetry"
)

// BreakerSettings configures the circuit breaker in front of a backend.
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32

	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration

	// Interval resets failure counts while closed. Zero never resets.
	Interval time.Duration

	// MaxRequests allowed through while half-open.
	MaxRequests uint32
}

// Guarded decorates a Backend with a circuit breaker and store telemetry.
// While the circuit is open every call fails fast with ErrUnavailable instead
// of waiting on a dead database.
type Guarded struct {
	next Backend
	cb   *gobreaker.CircuitBreaker[any]
}

var _ Backend = (*Guarded)(nil)

// NewGuarded wraps next. Panics if next is nil.
func NewGuarded(next Backend, settings BreakerSettings) *Guarded {
	if next == nil {
		panic("storage: backend is required")
	}
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}

	telemetry.SetBreakerState(stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "summary-store",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		// Absent summaries and bad input say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || isClientOutcome(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("[Storage] Circuit breaker state transition",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
			telemetry.SetBreakerState(stateToFloat(to))
		},
	})

	return &Guarded{next: next, cb: cb}
}

// State reports the breaker state (closed, half-open, open).
func (g *Guarded) State() string {
	return g.cb.State().String()
}

// RecordEvent runs the wrapped RecordEvent through the breaker.
func (g *Guarded) RecordEvent(ctx context.Context, evt *engagement.Event) error {
	_, err := guard(g, "record_event", func() (any, error) {
		return nil, g.next.RecordEvent(ctx, evt)
	})
	return err
}

// GetSummary runs the wrapped GetSummary through the breaker.
func (g *Guarded) GetSummary(ctx context.Context, postID string) (*engagement.Summary, error) {
	res, err := guard(g, "get_summary", func() (any, error) {
		return g.next.GetSummary(ctx, postID)
	})
	if err != nil {
		return nil, err
	}
	return res.(*engagement.Summary), nil
}

// GetAllSummaries runs the wrapped GetAllSummaries through the breaker.
func (g *Guarded) GetAllSummaries(ctx context.Context) (map[string]*engagement.Summary, error) {
	res, err := guard(g, "get_all_summaries", func() (any, error) {
		return g.next.GetAllSummaries(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.(map[string]*engagement.Summary), nil
}

// Ping bypasses the breaker so health checks see the backend's real state.
func (g *Guarded) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// Close closes the wrapped backend.
func (g *Guarded) Close() error {
	return g.next.Close()
}

func guard(g *Guarded, operation string, fn func() (any, error)) (any, error) {
	start := time.Now()
	res, err := g.cb.Execute(fn)
	outcome := classify(err)
	telemetry.ObserveStoreOperation(operation, outcome, time.Since(start))

	if outcome == telemetry.OutcomeRejected {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return res, err
}

func classify(err error) string {
	var vErr *engagement.ValidationError
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return telemetry.OutcomeNotFound
	case errors.As(err, &vErr):
		return telemetry.OutcomeInvalid
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return telemetry.OutcomeRejected
	default:
		return telemetry.OutcomeError
	}
}

func isClientOutcome(err error) bool {
	var vErr *engagement.ValidationError
	return errors.Is(err, ErrNotFound) || errors.As(err, &vErr) || errors.Is(err, context.Canceled)
}

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
