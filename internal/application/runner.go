package application

import (
	"context"

	"go.uber.org/zap"
)

// Checker is the single operation a Runner invokes.
type Checker interface {
	CheckQuote(ctx context.Context) (CheckResult, error)
}

// Runner wraps one check invocation with timing, logging, error reporting
// and metrics. It is what every entry point (cmd/check, worker, HTTP) calls.
type Runner struct {
	checker  Checker
	reporter ErrorReporter
	recorder Recorder
	log      *zap.Logger
	clock    Clock
	idgen    IDGen
}

type RunnerOption func(*Runner)

func WithReporter(r ErrorReporter) RunnerOption { return func(x *Runner) { x.reporter = r } }
func WithRecorder(r Recorder) RunnerOption      { return func(x *Runner) { x.recorder = r } }
func WithRunLogger(l *zap.Logger) RunnerOption  { return func(x *Runner) { x.log = l } }
func WithClock(c Clock) RunnerOption            { return func(x *Runner) { x.clock = c } }
func WithIDGen(g IDGen) RunnerOption            { return func(x *Runner) { x.idgen = g } }

func NewRunner(checker Checker, opts ...RunnerOption) *Runner {
	r := &Runner{checker: checker}
	for _, opt := range opts {
		opt(r)
	}
	if r.reporter == nil {
		r.reporter = noopReporter{}
	}
	if r.recorder == nil {
		r.recorder = noopRecorder{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.idgen == nil {
		r.idgen = defaultIDGen{}
	}
	return r
}

// Run performs one invocation. The returned error is the checker's error,
// already logged and reported.
func (r *Runner) Run(ctx context.Context) (CheckResult, error) {
	id := r.idgen.New()
	log := r.log.With(zap.String("invocation_id", id))
	start := r.clock.Now()
	log.Info("invocation.start")

	res, err := r.checker.CheckQuote(ctx)
	elapsed := r.clock.Now().Sub(start)
	kind, _ := Classify(err)
	r.recorder.ObserveCheck(kind, res, elapsed)

	if err != nil {
		log.Error("invocation.failed", zap.String("error_kind", kind), zap.Error(err))
		if kind != KindInProgress {
			r.reporter.Report(ctx, err, map[string]string{
				"invocation_id": id,
				"error_kind":    kind,
			})
		}
	}
	log.Info("invocation.done",
		zap.String("outcome", kind),
		zap.Duration("elapsed", elapsed),
	)
	return res, err
}
