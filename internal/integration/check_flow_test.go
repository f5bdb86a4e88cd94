package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
	httpserver "fxalert-service/internal/infrastructure/http"
	"fxalert-service/internal/infrastructure/httpx"
	"fxalert-service/internal/infrastructure/pg"
	"fxalert-service/internal/infrastructure/provider"
	redisstore "fxalert-service/internal/infrastructure/redis"
	"fxalert-service/internal/infrastructure/telegram"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// quoteAPI serves Alpha Vantage shaped responses with a mutable rate.
type quoteAPI struct {
	mu     sync.Mutex
	rate   string
	status int
}

func (q *quoteAPI) set(rate string, status int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rate, q.status = rate, status
}

func (q *quoteAPI) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status != http.StatusOK {
		w.WriteHeader(q.status)
		return
	}
	fmt.Fprintf(w, `{"Realtime Currency Exchange Rate": {"5. Exchange Rate": %q, "6. Last Refreshed": "2025-03-14 18:22:01", "7. Time Zone": "UTC"}}`, q.rate)
}

// chatAPI records every sendMessage text.
type chatAPI struct {
	mu     sync.Mutex
	texts  []string
	status int
}

func (c *chatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != 0 && c.status != http.StatusOK {
		w.WriteHeader(c.status)
		return
	}
	c.texts = append(c.texts, r.URL.Query().Get("text"))
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (c *chatAPI) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func (c *chatAPI) fail(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

type memStore struct {
	mu   sync.Mutex
	recs []domain.QuoteRecord
}

func (m *memStore) Latest(context.Context) (domain.QuoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.recs) == 0 {
		return domain.QuoteRecord{}, domain.ErrNotFound
	}
	return m.recs[len(m.recs)-1], nil
}

func (m *memStore) Append(_ context.Context, rec domain.QuoteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

type harness struct {
	quotes *quoteAPI
	chat   *chatAPI
	router http.Handler
}

func newHarness(t *testing.T, store application.QuoteStore, lock application.InvocationLock) *harness {
	t.Helper()
	quotes := &quoteAPI{rate: "4.00000000", status: http.StatusOK}
	chat := &chatAPI{}
	qs := httptest.NewServer(quotes)
	cs := httptest.NewServer(chat)
	t.Cleanup(qs.Close)
	t.Cleanup(cs.Close)

	client := &httpx.Client{HTTP: &http.Client{Timeout: 5 * time.Second}}
	fetcher := &provider.AlphaVantage{BaseURL: qs.URL, APIKey: "demo", From: "CAD", To: "BRL", Client: client}
	notifier := &telegram.Notifier{BaseURL: cs.URL, BotToken: "123:abc", ChatID: "42", Currency: "CAD", Client: client}

	checker := application.NewQuoteChecker(store, fetcher, notifier, 0.05, application.WithLock(lock))
	runner := application.NewRunner(checker)
	srv := httpserver.NewServer(runner, store)
	srv.SetMetricsHandler(http.NotFoundHandler())
	return &harness{quotes: quotes, chat: chat, router: httpserver.NewRouter(srv)}
}

func (h *harness) post(t *testing.T) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checks", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func (h *harness) latest(t *testing.T) (int, float64) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/quotes/latest", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return rec.Code, 0
	}
	var body struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body.Value
}

func runFlow(t *testing.T, h *harness) {
	code, _ := h.latest(t)
	require.Equal(t, http.StatusNotFound, code)

	code, body := h.post(t)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "first", body["kind"])
	require.Len(t, h.chat.sent(), 1)
	require.Contains(t, h.chat.sent()[0], "First quote fetched @ ")

	// +2.5% stays inside the band.
	h.quotes.set("4.10000000", http.StatusOK)
	code, body = h.post(t)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["notified"])
	require.Len(t, h.chat.sent(), 1)
	_, v := h.latest(t)
	require.InDelta(t, 4.0, v, 1e-9)

	// Exactly +5% is a breach.
	h.quotes.set("4.20000000", http.StatusOK)
	code, body = h.post(t)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "up", body["kind"])
	require.Contains(t, h.chat.sent()[1], "Oh no! CAD price just went up @ ")
	_, v = h.latest(t)
	require.InDelta(t, 4.2, v, 1e-9)

	// A failed send leaves the baseline alone.
	h.chat.fail(http.StatusForbidden)
	h.quotes.set("3.00000000", http.StatusOK)
	code, _ = h.post(t)
	require.Equal(t, http.StatusBadGateway, code)
	_, v = h.latest(t)
	require.InDelta(t, 4.2, v, 1e-9)

	h.chat.fail(http.StatusOK)
	code, body = h.post(t)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "down", body["kind"])
	_, v = h.latest(t)
	require.InDelta(t, 3.0, v, 1e-9)

	h.quotes.set("", http.StatusServiceUnavailable)
	code, _ = h.post(t)
	require.Equal(t, http.StatusBadGateway, code)
	require.Len(t, h.chat.sent(), 3)
}

func TestCheckFlow_InMemory(t *testing.T) {
	runFlow(t, newHarness(t, &memStore{}, application.NoopLock{}))
}

func TestCheckFlow_LockHeldElsewhere(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := redisstore.New(client, "", time.Minute)
	h := newHarness(t, &memStore{}, lock)

	require.NoError(t, mr.Set(redisstore.DefaultLockKey, "other-invocation"))
	code, _ := h.post(t)
	require.Equal(t, http.StatusConflict, code)
	require.Empty(t, h.chat.sent())

	mr.Del(redisstore.DefaultLockKey)
	code, _ = h.post(t)
	require.Equal(t, http.StatusOK, code)
	require.False(t, mr.Exists(redisstore.DefaultLockKey))
}

func TestCheckFlow_Postgres(t *testing.T) {
	if os.Getenv("TESTCONTAINERS") == "" {
		t.Skip("set TESTCONTAINERS=1 to run containerized PG tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := postgres.RunContainer(ctx,
		postgres.WithDatabase("fxalert"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := pg.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, pg.RunMigrations(ctx, db))

	runFlow(t, newHarness(t, pg.NewQuoteRepo(db), application.NoopLock{}))
}
