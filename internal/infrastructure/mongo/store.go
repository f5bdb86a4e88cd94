package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type quoteDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FetchedAt   time.Time          `bson:"fetchedAt"`
	RefreshedAt time.Time          `bson:"refreshedAt"`
	Value       float64            `bson:"value"`
}

func toDoc(rec domain.QuoteRecord) quoteDoc {
	return quoteDoc{
		FetchedAt:   rec.FetchedAt.UTC(),
		RefreshedAt: rec.RefreshedAt.UTC(),
		Value:       rec.Value,
	}
}

func (d quoteDoc) record() domain.QuoteRecord {
	return domain.QuoteRecord{
		FetchedAt:   d.FetchedAt.UTC(),
		RefreshedAt: d.RefreshedAt.UTC(),
		Value:       d.Value,
	}
}

// Store keeps one document per persisted quote. ObjectIDs grow with
// insertion, so the latest record is the one with the highest _id.
type Store struct {
	h *Handle
}

var _ application.QuoteStore = (*Store)(nil)

func NewStore(h *Handle) *Store { return &Store{h: h} }

func (s *Store) Latest(ctx context.Context) (domain.QuoteRecord, error) {
	coll, err := s.h.Collection(ctx)
	if err != nil {
		return domain.QuoteRecord{}, &domain.StoreError{Op: "latest", Err: err}
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var doc quoteDoc
	err = coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.QuoteRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.QuoteRecord{}, &domain.StoreError{Op: "latest", Err: err}
	}
	return doc.record(), nil
}

func (s *Store) Append(ctx context.Context, rec domain.QuoteRecord) error {
	if !domain.ValidRate(rec.Value) {
		return fmt.Errorf("append value %v: %w", rec.Value, domain.ErrInvalidQuote)
	}
	coll, err := s.h.Collection(ctx)
	if err != nil {
		return &domain.StoreError{Op: "append", Err: err}
	}
	if _, err := coll.InsertOne(ctx, toDoc(rec)); err != nil {
		return &domain.StoreError{Op: "append", Err: err}
	}
	return nil
}

// Ping reports store reachability for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.h.Ping(ctx); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}
