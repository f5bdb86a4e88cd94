package application

import (
	"errors"

	"fxalert-service/internal/domain"
)

var ErrCheckInProgress = errors.New("another quote check is in progress")

// Error kinds used for log fields, metric labels and exit codes.
const (
	KindOK           = "ok"
	KindConfig       = "config"
	KindQuoteFetch   = "quote_fetch"
	KindStore        = "store"
	KindNotification = "notification"
	KindInProgress   = "in_progress"
	KindUnknown      = "unknown"
)

// Classify maps an invocation error to its kind and process exit code.
func Classify(err error) (kind string, exitCode int) {
	if err == nil {
		return KindOK, 0
	}
	var (
		cfgErr   *domain.ConfigError
		fetchErr *domain.QuoteFetchError
		storeErr *domain.StoreError
		notifErr *domain.NotificationError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfig, 2
	case errors.As(err, &fetchErr):
		return KindQuoteFetch, 3
	case errors.As(err, &storeErr):
		return KindStore, 4
	case errors.As(err, &notifErr):
		return KindNotification, 5
	case errors.Is(err, ErrCheckInProgress):
		return KindInProgress, 6
	default:
		return KindUnknown, 1
	}
}
