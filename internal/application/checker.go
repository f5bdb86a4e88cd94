package application

import (
	"context"
	"errors"
	"fmt"

	"fxalert-service/internal/domain"

	"go.uber.org/zap"
)

// CheckResult describes what a single check did.
type CheckResult struct {
	Previous *domain.QuoteRecord
	Current  domain.QuoteRecord
	Action   domain.Action
}

// QuoteChecker runs the fetch/compare/notify/persist sequence.
type QuoteChecker struct {
	store     QuoteStore
	fetcher   QuoteFetcher
	notifier  Notifier
	threshold float64
	lock      InvocationLock
	log       *zap.Logger
}

type CheckerOption func(*QuoteChecker)

func WithLock(l InvocationLock) CheckerOption { return func(c *QuoteChecker) { c.lock = l } }
func WithLogger(l *zap.Logger) CheckerOption  { return func(c *QuoteChecker) { c.log = l } }

func NewQuoteChecker(store QuoteStore, fetcher QuoteFetcher, notifier Notifier, threshold float64, opts ...CheckerOption) *QuoteChecker {
	c := &QuoteChecker{
		store:     store,
		fetcher:   fetcher,
		notifier:  notifier,
		threshold: threshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lock == nil {
		c.lock = NoopLock{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// CheckQuote compares a fresh quote with the latest stored one. The notifier
// is always called before the store append, so a failed send leaves the
// store unchanged.
func (c *QuoteChecker) CheckQuote(ctx context.Context) (CheckResult, error) {
	release, ok, err := c.lock.TryAcquire(ctx)
	if err != nil {
		return CheckResult{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return CheckResult{}, ErrCheckInProgress
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			c.log.Warn("check.lock_release_failed", zap.Error(err))
		}
	}()

	var res CheckResult

	latest, err := c.store.Latest(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.log.Info("check.no_baseline")
	case err != nil:
		return res, err
	default:
		res.Previous = &latest
	}

	current, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return res, err
	}
	if !domain.ValidRate(current.Value) {
		return res, &domain.QuoteFetchError{
			Reason: fmt.Sprintf("invalid rate %v", current.Value),
			Field:  "5. Exchange Rate",
			Err:    domain.ErrInvalidQuote,
		}
	}
	res.Current = current
	res.Action = domain.Decide(res.Previous, current, c.threshold)

	log := c.log.With(zap.Float64("value", current.Value))
	if res.Previous != nil {
		log = log.With(zap.Float64("baseline", res.Previous.Value))
	}

	if !res.Action.Notify {
		log.Info("check.within_threshold")
		return res, nil
	}

	if err := c.notifier.Notify(ctx, current, res.Action.Kind); err != nil {
		return res, err
	}
	log.Info("check.notified", zap.Stringer("kind", res.Action.Kind))

	if res.Action.Persist {
		if err := c.store.Append(ctx, current); err != nil {
			return res, err
		}
		log.Info("check.persisted")
	}
	return res, nil
}
