package application

import (
	"context"
	"errors"
	"time"

	"fxalert-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

var ErrRepo = errors.New("repo error")

type fakeStore struct {
	records   []domain.QuoteRecord
	latestErr error
	appendErr error
	appends   int
}

func (f *fakeStore) Latest(context.Context) (domain.QuoteRecord, error) {
	if f.latestErr != nil {
		return domain.QuoteRecord{}, f.latestErr
	}
	if len(f.records) == 0 {
		return domain.QuoteRecord{}, domain.ErrNotFound
	}
	return f.records[len(f.records)-1], nil
}

func (f *fakeStore) Append(_ context.Context, rec domain.QuoteRecord) error {
	f.appends++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeFetcher struct {
	out   domain.QuoteRecord
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) (domain.QuoteRecord, error) {
	f.calls++
	if f.err != nil {
		return domain.QuoteRecord{}, f.err
	}
	return f.out, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, rec domain.QuoteRecord, kind domain.NotificationKind) error {
	args := m.Called(ctx, rec, kind)
	return args.Error(0)
}

type busyLock struct{}

func (busyLock) TryAcquire(context.Context) (func(context.Context) error, bool, error) {
	return nil, false, nil
}

type countingLock struct{ acquired, released int }

func (l *countingLock) TryAcquire(context.Context) (func(context.Context) error, bool, error) {
	l.acquired++
	return func(context.Context) error { l.released++; return nil }, true, nil
}

type fakeChecker struct {
	res CheckResult
	err error
}

func (f fakeChecker) CheckQuote(context.Context) (CheckResult, error) { return f.res, f.err }

type reported struct {
	err    error
	fields map[string]string
}

type memReporter struct{ got []reported }

func (m *memReporter) Report(_ context.Context, err error, fields map[string]string) {
	m.got = append(m.got, reported{err: err, fields: fields})
}

type observation struct {
	outcome string
	elapsed time.Duration
}

type memRecorder struct{ got []observation }

func (m *memRecorder) ObserveCheck(outcome string, _ CheckResult, elapsed time.Duration) {
	m.got = append(m.got, observation{outcome: outcome, elapsed: elapsed})
}

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type fixedID string

func (f fixedID) New() string { return string(f) }
