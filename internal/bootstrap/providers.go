package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/config"
	"fxalert-service/internal/domain"
	httpserver "fxalert-service/internal/infrastructure/http"
	"fxalert-service/internal/infrastructure/httpx"
	"fxalert-service/internal/infrastructure/logx"
	"fxalert-service/internal/infrastructure/metrics"
	mongostore "fxalert-service/internal/infrastructure/mongo"
	"fxalert-service/internal/infrastructure/pg"
	"fxalert-service/internal/infrastructure/provider"
	redisstore "fxalert-service/internal/infrastructure/redis"
	"fxalert-service/internal/infrastructure/report"
	"fxalert-service/internal/infrastructure/telegram"
	"fxalert-service/internal/infrastructure/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ServiceName    = "fxalert-service"
	fakeQuoteValue = 3.9
	closeTimeout   = 5 * time.Second
)

// Version is stamped at build time with -ldflags "-X ...bootstrap.Version=".
var Version = "dev"

// Store is a quote store that can also report readiness.
type Store interface {
	application.QuoteStore
	Ping(ctx context.Context) error
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() (config.Config, error) { return config.Load() }

// ProvideStore opens the configured backend. Mongo connects lazily on first
// use; pg connects and migrates up front.
func ProvideStore(ctx context.Context, cfg config.Config, log *zap.Logger) (Store, func(), error) {
	switch cfg.Store {
	case "mongo":
		uri := cfg.MongoURI
		if uri == "" {
			uri = mongostore.URI(cfg.MongoUser, cfg.MongoPass, cfg.MongoHost)
		}
		h := mongostore.NewHandle(uri, cfg.MongoDatabase, cfg.MongoCollection)
		cleanup := func() {
			log.Info("closing mongo")
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			_ = h.Close(ctx)
		}
		return mongostore.NewStore(h), cleanup, nil
	case "pg":
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, &domain.StoreError{Op: "connect", Err: err}
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, func() {}, &domain.StoreError{Op: "migrate", Err: err}
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewQuoteRepo(db), cleanup, nil
	default:
		return nil, func() {}, &domain.ConfigError{Invalid: map[string]string{"STORE": fmt.Sprintf("unsupported store %q", cfg.Store)}}
	}
}

func ProvideQuoteStore(s Store) application.QuoteStore { return s }

func ProvideHTTPClient(cfg config.Config) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}}
}

func ProvideFetcher(cfg config.Config, client *httpx.Client) (application.QuoteFetcher, error) {
	switch cfg.Provider {
	case "alphavantage":
		return &provider.AlphaVantage{
			BaseURL: cfg.AlphaVantageURL,
			APIKey:  cfg.AlphaVantageKey,
			From:    cfg.FromCurrency,
			To:      cfg.ToCurrency,
			Client:  client,
		}, nil
	case "fake":
		return provider.NewFake(fakeQuoteValue), nil
	default:
		return nil, &domain.ConfigError{Invalid: map[string]string{"PROVIDER": fmt.Sprintf("unsupported provider %q", cfg.Provider)}}
	}
}

func ProvideNotifier(cfg config.Config, client *httpx.Client) application.Notifier {
	return &telegram.Notifier{
		BaseURL:  cfg.TelegramURL,
		BotToken: cfg.TelegramBotKey,
		ChatID:   cfg.TelegramChatID,
		Currency: cfg.FromCurrency,
		Client:   client,
	}
}

func ProvideLock(cfg config.Config) (application.InvocationLock, func(), error) {
	if cfg.LockBackend != "redis" {
		return application.NoopLock{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	key := redisstore.DefaultLockKey + ":" + strings.ToLower(cfg.FromCurrency+"-"+cfg.ToCurrency)
	return redisstore.New(client, key, cfg.LockTTL), func() { _ = client.Close() }, nil
}

func ProvideReporter(log *zap.Logger) application.ErrorReporter {
	return report.New(log, ServiceName, Version)
}

// ProvideRecorder registers the check collectors on the default registry,
// which /metrics serves. Call it once per process.
func ProvideRecorder() application.Recorder {
	return metrics.NewCheckMetrics(prometheus.DefaultRegisterer)
}

func ProvideChecker(cfg config.Config, store application.QuoteStore, fetcher application.QuoteFetcher, notifier application.Notifier, lock application.InvocationLock, log *zap.Logger) *application.QuoteChecker {
	return application.NewQuoteChecker(store, fetcher, notifier, cfg.Threshold,
		application.WithLock(lock),
		application.WithLogger(log.With(
			zap.String("from_currency", cfg.FromCurrency),
			zap.String("to_currency", cfg.ToCurrency),
		)),
	)
}

func ProvideRunner(checker *application.QuoteChecker, reporter application.ErrorReporter, recorder application.Recorder, log *zap.Logger) *application.Runner {
	return application.NewRunner(checker,
		application.WithReporter(reporter),
		application.WithRecorder(recorder),
		application.WithRunLogger(log),
	)
}

func ProvideServer(runner *application.Runner, store Store) *httpserver.Server {
	srv := httpserver.NewServer(runner, store)
	srv.SetReadyCheck(store.Ping)
	return srv
}

func ProvideWorker(runner *application.Runner, cfg config.Config, log *zap.Logger) application.Worker {
	return &worker.TickerWorker{
		Runner:   runner,
		Interval: cfg.CheckInterval,
		Timeout:  cfg.CheckInterval,
		Log:      log.With(zap.String("worker", "ticker")),
	}
}
