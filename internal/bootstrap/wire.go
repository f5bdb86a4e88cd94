//go:build wireinject

package bootstrap

import (
	"context"

	"fxalert-service/internal/application"
	httpserver "fxalert-service/internal/infrastructure/http"

	"github.com/google/wire"
)

var checkSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideStore,
	ProvideQuoteStore,
	ProvideHTTPClient,
	ProvideFetcher,
	ProvideNotifier,
	ProvideLock,
	ProvideReporter,
	ProvideRecorder,
	ProvideChecker,
	ProvideRunner,
)

// InitRunner builds the one-shot invocation used by cmd/check.
func InitRunner(ctx context.Context) (*application.Runner, func(), error) {
	wire.Build(checkSet)
	return nil, nil, nil
}

// InitAPI builds *httpserver.Server + Cleanup
func InitAPI(ctx context.Context) (*httpserver.Server, func(), error) {
	wire.Build(checkSet, ProvideServer)
	return nil, nil, nil
}

// InitWorker builds application.Worker + Cleanup
func InitWorker(ctx context.Context) (application.Worker, func(), error) {
	wire.Build(checkSet, ProvideWorker)
	return nil, nil, nil
}
