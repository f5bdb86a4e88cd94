package application

import (
	"context"
	"time"

	"fxalert-service/internal/domain"
)

// QuoteStore persists quote records append-only.
type QuoteStore interface {
	// Latest returns the most recently appended record or domain.ErrNotFound.
	Latest(ctx context.Context) (domain.QuoteRecord, error)
	Append(ctx context.Context, rec domain.QuoteRecord) error
}

type QuoteFetcher interface {
	Fetch(ctx context.Context) (domain.QuoteRecord, error)
}

type Notifier interface {
	Notify(ctx context.Context, rec domain.QuoteRecord, kind domain.NotificationKind) error
}

// InvocationLock keeps overlapping invocations from racing on the
// read-then-append sequence.
type InvocationLock interface {
	// TryAcquire returns a release func when the lock was taken, or ok=false
	// when another invocation holds it.
	TryAcquire(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

// ErrorReporter forwards failed invocations to an error-tracking backend.
type ErrorReporter interface {
	Report(ctx context.Context, err error, fields map[string]string)
}

// Recorder receives per-invocation measurements.
type Recorder interface {
	ObserveCheck(outcome string, res CheckResult, elapsed time.Duration)
}

// NoopLock always grants the lock.
type NoopLock struct{}

func (NoopLock) TryAcquire(context.Context) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

type noopReporter struct{}

func (noopReporter) Report(context.Context, error, map[string]string) {}

type noopRecorder struct{}

func (noopRecorder) ObserveCheck(string, CheckResult, time.Duration) {}
