// Command check runs a single quote check and exits. It is the entry point
// for external schedulers (cron, Cloud Scheduler jobs).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fxalert-service/internal/application"
	"fxalert-service/internal/bootstrap"
	"fxalert-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() { os.Exit(run()) }

func run() int {
	log := logx.L()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, cleanup, err := bootstrap.InitRunner(ctx)
	if err != nil {
		kind, code := application.Classify(err)
		log.Error("bootstrap.failed", zap.String("error_kind", kind), zap.Error(err))
		bootstrap.ProvideReporter(log).Report(ctx, err, map[string]string{"error_kind": kind})
		return code
	}
	defer cleanup()

	_, err = runner.Run(ctx)
	_, code := application.Classify(err)
	return code
}
