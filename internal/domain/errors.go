package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuote marks a record that must never be persisted.
	ErrInvalidQuote = errors.New("invalid quote")
)

// ConfigError lists every missing or malformed runtime key.
type ConfigError struct {
	Missing []string
	Invalid map[string]string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "could not load the following variables: "+strings.Join(e.Missing, ", "))
	}
	for _, key := range slices.Sorted(maps.Keys(e.Invalid)) {
		parts = append(parts, fmt.Sprintf("invalid %s: %s", key, e.Invalid[key]))
	}
	if len(parts) == 0 {
		return "config: invalid configuration"
	}
	return "config: " + strings.Join(parts, "; ")
}

// HasProblems reports whether anything was recorded.
func (e *ConfigError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// QuoteFetchError is returned by quote fetchers for any bad status or payload.
type QuoteFetchError struct {
	StatusCode int
	Reason     string
	// Field names the response field that was missing or malformed, if any.
	Field string
	Err   error
}

func (e *QuoteFetchError) Error() string {
	var b strings.Builder
	b.WriteString("quote fetch: ")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "status %d", e.StatusCode)
		if e.Reason != "" {
			fmt.Fprintf(&b, ": %s", e.Reason)
		}
	} else if e.Reason != "" {
		b.WriteString(e.Reason)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *QuoteFetchError) Unwrap() error { return e.Err }

// StoreError wraps connectivity, auth and query failures of the quote store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotificationError is returned when the messaging transport rejects a send.
type NotificationError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *NotificationError) Error() string {
	msg := "notification"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += " - " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *NotificationError) Unwrap() error { return e.Err }
