package provider

import (
	"context"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
)

// Ensure Fake implements application.QuoteFetcher.
var _ application.QuoteFetcher = (*Fake)(nil)

// Fake always returns the same rate. Used with PROVIDER=fake.
type Fake struct {
	value float64
}

func NewFake(value float64) *Fake { return &Fake{value: value} }

func (f *Fake) Fetch(context.Context) (domain.QuoteRecord, error) {
	now := time.Now().UTC()
	return domain.QuoteRecord{
		FetchedAt:   now,
		RefreshedAt: now.Truncate(time.Second),
		Value:       f.value,
	}, nil
}
