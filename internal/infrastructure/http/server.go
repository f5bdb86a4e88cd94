package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
)

// CheckRunner triggers one check invocation.
type CheckRunner interface {
	Run(ctx context.Context) (application.CheckResult, error)
}

// LatestReader exposes the current baseline.
type LatestReader interface {
	Latest(ctx context.Context) (domain.QuoteRecord, error)
}

type Server struct {
	runner  CheckRunner
	store   LatestReader
	ping    func(ctx context.Context) error
	metrics http.Handler
}

func NewServer(runner CheckRunner, store LatestReader) *Server {
	return &Server{runner: runner, store: store}
}

// SetReadyCheck sets the probe used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

// SetMetricsHandler sets the handler served at /metrics.
func (s *Server) SetMetricsHandler(h http.Handler) { s.metrics = h }

type quoteJSON struct {
	Value       float64   `json:"value"`
	FetchedAt   time.Time `json:"fetched_at"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type checkJSON struct {
	Notified  bool       `json:"notified"`
	Kind      string     `json:"kind,omitempty"`
	Persisted bool       `json:"persisted"`
	Current   quoteJSON  `json:"current"`
	Previous  *quoteJSON `json:"previous,omitempty"`
}

type errorJSON struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toQuoteJSON(rec domain.QuoteRecord) quoteJSON {
	return quoteJSON{Value: rec.Value, FetchedAt: rec.FetchedAt, RefreshedAt: rec.RefreshedAt}
}

func (s *Server) RunCheck(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Run(r.Context())
	if err != nil {
		kind, _ := application.Classify(err)
		writeError(w, statusFor(kind), kind+": "+err.Error())
		return
	}
	resp := checkJSON{
		Notified:  res.Action.Notify,
		Persisted: res.Action.Persist,
		Current:   toQuoteJSON(res.Current),
	}
	if res.Action.Notify {
		resp.Kind = res.Action.Kind.String()
	}
	if res.Previous != nil {
		p := toQuoteJSON(*res.Previous)
		resp.Previous = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) GetLatestQuote(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Latest(r.Context())
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no quote stored yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toQuoteJSON(rec))
}

// statusFor maps an error kind from application.Classify to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case application.KindInProgress:
		return http.StatusConflict
	case application.KindQuoteFetch, application.KindNotification:
		return http.StatusBadGateway
	case application.KindStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Code: status, Message: msg})
}
