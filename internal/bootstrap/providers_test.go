package bootstrap

import (
	"context"
	"testing"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/config"
	"fxalert-service/internal/domain"
	mongostore "fxalert-service/internal/infrastructure/mongo"
	"fxalert-service/internal/infrastructure/provider"
	redisstore "fxalert-service/internal/infrastructure/redis"
	"fxalert-service/internal/infrastructure/telegram"
	"fxalert-service/internal/infrastructure/worker"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func baseConfig() config.Config {
	return config.Config{
		Provider:        "alphavantage",
		AlphaVantageURL: config.DefaultAlphaVantageURL,
		AlphaVantageKey: "demo",
		FromCurrency:    "CAD",
		ToCurrency:      "BRL",
		Threshold:       0.05,
		RequestTimeout:  time.Second,
		Store:           "mongo",
		MongoHost:       "cluster0.example.mongodb.net",
		MongoUser:       "u",
		MongoPass:       "p",
		MongoDatabase:   "db",
		MongoCollection: config.DefaultMongoCollection,
		TelegramURL:     config.DefaultTelegramURL,
		TelegramBotKey:  "123:abc",
		TelegramChatID:  "42",
		LockBackend:     "none",
		LockTTL:         time.Minute,
		CheckInterval:   time.Minute,
	}
}

func TestProvideFetcher(t *testing.T) {
	cfg := baseConfig()
	client := ProvideHTTPClient(cfg)
	require.Equal(t, time.Second, client.HTTP.Timeout)

	f, err := ProvideFetcher(cfg, client)
	require.NoError(t, err)
	av, ok := f.(*provider.AlphaVantage)
	require.True(t, ok)
	require.Equal(t, "CAD", av.From)
	require.Equal(t, "BRL", av.To)

	cfg.Provider = "fake"
	f, err = ProvideFetcher(cfg, client)
	require.NoError(t, err)
	rec, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Greater(t, rec.Value, 0.0)

	cfg.Provider = "bogus"
	_, err = ProvideFetcher(cfg, client)
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestProvideNotifier(t *testing.T) {
	cfg := baseConfig()
	n, ok := ProvideNotifier(cfg, ProvideHTTPClient(cfg)).(*telegram.Notifier)
	require.True(t, ok)
	require.Equal(t, "CAD", n.Currency)
	require.Equal(t, "42", n.ChatID)
}

func TestProvideStore_MongoIsLazy(t *testing.T) {
	cfg := baseConfig()
	s, cleanup, err := ProvideStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	_, ok := s.(*mongostore.Store)
	require.True(t, ok)
}

func TestProvideStore_Unsupported(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = "sqlite"
	_, cleanup, err := ProvideStore(context.Background(), cfg, zap.NewNop())
	cleanup()
	kind, code := application.Classify(err)
	require.Equal(t, application.KindConfig, kind)
	require.Equal(t, 2, code)
}

func TestProvideStore_PgUnreachableIsStoreError(t *testing.T) {
	cfg := baseConfig()
	cfg.Store = "pg"
	cfg.DatabaseURL = "not a url ::"
	_, cleanup, err := ProvideStore(context.Background(), cfg, zap.NewNop())
	cleanup()
	var se *domain.StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "connect", se.Op)
}

func TestProvideLock(t *testing.T) {
	cfg := baseConfig()
	l, cleanup, err := ProvideLock(cfg)
	require.NoError(t, err)
	cleanup()
	require.IsType(t, application.NoopLock{}, l)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cfg.LockBackend = "redis"
	cfg.RedisAddr = mr.Addr()
	l, cleanup, err = ProvideLock(cfg)
	require.NoError(t, err)
	defer cleanup()

	rl, ok := l.(*redisstore.Lock)
	require.True(t, ok)
	require.Equal(t, "fxalert:check:lock:cad-brl", rl.Key)

	release, ok, err := l.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists(rl.Key))
	require.NoError(t, release(context.Background()))
}

func TestProvideWorker(t *testing.T) {
	cfg := baseConfig()
	w, ok := ProvideWorker(nil, cfg, zap.NewNop()).(*worker.TickerWorker)
	require.True(t, ok)
	require.Equal(t, time.Minute, w.Interval)
}
