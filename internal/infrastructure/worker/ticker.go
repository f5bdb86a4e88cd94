package worker

import (
	"context"
	"time"

	"fxalert-service/internal/application"

	"go.uber.org/zap"
)

var _ application.Worker = (*TickerWorker)(nil)

// Invoker runs one check invocation.
type Invoker interface {
	Run(ctx context.Context) (application.CheckResult, error)
}

// TickerWorker runs an invocation at start and then every Interval. Ticks
// never overlap: a slow invocation delays the next one.
type TickerWorker struct {
	Runner   Invoker
	Interval time.Duration
	// Timeout bounds a single invocation; zero means no bound.
	Timeout time.Duration
	Log     *zap.Logger
}

func (w *TickerWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	log.Info("worker.started", zap.Duration("interval", w.Interval))
	w.runOne(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("worker.stopped")
			return
		case <-t.C:
			w.runOne(ctx, log)
		}
	}
}

func (w *TickerWorker) runOne(ctx context.Context, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("worker.panic", zap.Any("r", r))
		}
	}()
	if ctx.Err() != nil {
		return
	}
	c := ctx
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}
	// The runner already logs and reports failures.
	_, _ = w.Runner.Run(c)
}
