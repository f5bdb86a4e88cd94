package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"fxalert-service/internal/domain"

	"github.com/spf13/viper"
)

const (
	DefaultThreshold       = 0.05
	DefaultFromCurrency    = "CAD"
	DefaultToCurrency      = "BRL"
	DefaultSecretsFile     = "./secrets.json"
	DefaultMongoHost       = "cluster0.y7r7m.mongodb.net"
	DefaultMongoCollection = "currency"
	DefaultAlphaVantageURL = "https://www.alphavantage.co"
	DefaultTelegramURL     = "https://api.telegram.org"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string
	// Quote API
	Provider        string
	AlphaVantageKey string
	AlphaVantageURL string
	FromCurrency    string
	ToCurrency      string
	Threshold       float64
	RequestTimeout  time.Duration
	// Store
	Store           string
	MongoURI        string
	MongoHost       string
	MongoUser       string
	MongoPass       string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string
	// Notifier
	TelegramBotKey string
	TelegramChatID string
	TelegramURL    string
	// Invocation lock
	LockBackend   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration
	// Worker
	CheckInterval time.Duration
}

// Source looks up a single runtime key.
type Source func(key string) (string, bool)

// EnvSource reads the key as-is, then its upper-case form.
func EnvSource() Source {
	return viperSource(viper.New())
}

// viperSource binds each key to its exact and upper-case environment names
// on first lookup. Bound env vars take precedence over config file values.
func viperSource(v *viper.Viper) Source {
	var mu sync.Mutex
	bound := map[string]bool{}
	return func(key string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		if !bound[key] {
			_ = v.BindEnv(key, key, strings.ToUpper(key))
			bound[key] = true
		}
		if !v.IsSet(key) {
			return "", false
		}
		val := strings.TrimSpace(v.GetString(key))
		return val, val != ""
	}
}

// MapSource serves keys from an in-memory map.
func MapSource(m map[string]string) Source {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok && v != ""
	}
}

// FileSource reads a flat JSON object. Values may be strings or numbers and
// null counts as absent. Environment variables override file values.
func FileSource(path string) (Source, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return viperSource(v), nil
}

// Load reads SECRETS_FILE (default ./secrets.json) when it exists and the
// environment otherwise.
func Load() (Config, error) {
	path := getEnv("SECRETS_FILE", DefaultSecretsFile)
	src, err := FileSource(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		src = EnvSource()
	default:
		return Config{}, &domain.ConfigError{Invalid: map[string]string{"SECRETS_FILE": err.Error()}}
	}
	return FromSource(src)
}

// FromSource builds and validates a Config. Every missing or invalid key is
// collected into a single *domain.ConfigError.
func FromSource(src Source) (Config, error) {
	r := reader{src: src, errs: &domain.ConfigError{Invalid: map[string]string{}}}

	cfg := Config{
		Env:             r.opt("ENV", "local"),
		LogLevel:        r.opt("LOG_LEVEL", "info"),
		Port:            r.opt("PORT", "8080"),
		Provider:        r.opt("PROVIDER", "alphavantage"),
		AlphaVantageURL: r.opt("ALPHA_VANTAGE_BASE_URL", DefaultAlphaVantageURL),
		FromCurrency:    strings.ToUpper(r.opt("from_currency", DefaultFromCurrency)),
		ToCurrency:      strings.ToUpper(r.opt("to_currency", DefaultToCurrency)),
		Threshold:       r.float("threshold", DefaultThreshold),
		RequestTimeout:  r.millis("REQUEST_TIMEOUT_MS", 10000),
		Store:           r.opt("STORE", "mongo"),
		MongoURI:        r.opt("mongo_uri", ""),
		MongoHost:       r.opt("mongo_host", DefaultMongoHost),
		MongoCollection: r.opt("mongo_collection", DefaultMongoCollection),
		TelegramURL:     r.opt("TELEGRAM_BASE_URL", DefaultTelegramURL),
		LockBackend:     r.opt("LOCK_BACKEND", "none"),
		RedisAddr:       r.opt("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   r.opt("REDIS_PASSWORD", ""),
		RedisDB:         int(r.float("REDIS_DB", 0)),
		LockTTL:         r.millis("LOCK_TTL_MS", 60000),
		CheckInterval:   r.millis("CHECK_INTERVAL_MS", 15*60*1000),
	}

	if cfg.Provider != "fake" {
		cfg.AlphaVantageKey = r.req("alpha_vantage_key")
	}
	switch cfg.Store {
	case "mongo":
		cfg.MongoUser = r.req("mongo_user")
		cfg.MongoPass = r.req("mongo_pass")
		cfg.MongoDatabase = r.req("mongo_database")
	case "pg":
		cfg.DatabaseURL = r.req("DATABASE_URL")
	default:
		r.errs.Invalid["STORE"] = fmt.Sprintf("unsupported store %q", cfg.Store)
	}
	cfg.TelegramBotKey = r.req("telegram_bot_key")
	cfg.TelegramChatID = r.req("telegram_chat_id")

	if !(cfg.Threshold > 0 && cfg.Threshold < 1) {
		r.errs.Invalid["threshold"] = "must be between 0 and 1 (exclusive)"
	}
	if !domain.ValidateCurrency(cfg.FromCurrency) {
		r.errs.Invalid["from_currency"] = fmt.Sprintf("%q is not a 3-letter currency code", cfg.FromCurrency)
	}
	if !domain.ValidateCurrency(cfg.ToCurrency) {
		r.errs.Invalid["to_currency"] = fmt.Sprintf("%q is not a 3-letter currency code", cfg.ToCurrency)
	} else if cfg.FromCurrency == cfg.ToCurrency {
		r.errs.Invalid["to_currency"] = "must differ from from_currency"
	}
	switch cfg.LockBackend {
	case "none", "redis":
	default:
		r.errs.Invalid["LOCK_BACKEND"] = fmt.Sprintf("unsupported lock backend %q", cfg.LockBackend)
	}

	if r.errs.HasProblems() {
		return cfg, r.errs
	}
	return cfg, nil
}

// LogLevel is read straight from the environment so the logger can be built
// before (and independently of) a successful config load.
func LogLevel() string { return getEnv("LOG_LEVEL", "info") }

type reader struct {
	src  Source
	errs *domain.ConfigError
}

func (r reader) opt(key, def string) string {
	if v, ok := r.src(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (r reader) req(key string) string {
	v, ok := r.src(key)
	if !ok || strings.TrimSpace(v) == "" {
		r.errs.Missing = append(r.errs.Missing, key)
		return ""
	}
	return strings.TrimSpace(v)
}

func (r reader) float(key string, def float64) float64 {
	v, ok := r.src(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.errs.Invalid[key] = fmt.Sprintf("%q is not a number", v)
		return def
	}
	return f
}

func (r reader) millis(key string, defMS int) time.Duration {
	ms := r.float(key, float64(defMS))
	if ms <= 0 {
		ms = float64(defMS)
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
