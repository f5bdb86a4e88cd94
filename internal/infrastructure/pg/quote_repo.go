package pg

import (
	"context"
	"errors"
	"fmt"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
	"fxalert-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// QuoteRepo is the append-only quote history. The highest id is the
// current baseline.
type QuoteRepo struct{ db *DB }

var _ application.QuoteStore = (*QuoteRepo)(nil)

func NewQuoteRepo(db *DB) *QuoteRepo { return &QuoteRepo{db: db} }

func (r *QuoteRepo) Latest(ctx context.Context) (domain.QuoteRecord, error) {
	const q = `
        SELECT fetched_at, refreshed_at, value
        FROM quotes
        ORDER BY id DESC
        LIMIT 1`
	var out domain.QuoteRecord
	err := r.db.Pool.QueryRow(ctx, q).Scan(&out.FetchedAt, &out.RefreshedAt, &out.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuoteRecord{}, domain.ErrNotFound
	}
	if err != nil {
		logx.L().Error("sql.query_failed", zap.String("repo", "quote"), zap.String("operation", "Latest"), zap.Error(err))
		return domain.QuoteRecord{}, &domain.StoreError{Op: "latest", Err: err}
	}
	out.FetchedAt = out.FetchedAt.UTC()
	out.RefreshedAt = out.RefreshedAt.UTC()
	return out, nil
}

func (r *QuoteRepo) Append(ctx context.Context, rec domain.QuoteRecord) error {
	if !domain.ValidRate(rec.Value) {
		return fmt.Errorf("append value %v: %w", rec.Value, domain.ErrInvalidQuote)
	}
	const ins = `
        INSERT INTO quotes(fetched_at, refreshed_at, value)
        VALUES ($1, $2, $3)`
	tag, err := r.db.Pool.Exec(ctx, ins, rec.FetchedAt.UTC(), rec.RefreshedAt.UTC(), rec.Value)
	if err != nil {
		logx.L().Error("sql.exec_failed", zap.String("repo", "quote"), zap.String("operation", "Append"), zap.Error(err))
		return &domain.StoreError{Op: "append", Err: err}
	}
	logx.L().Debug("sql.exec_success", zap.String("repo", "quote"), zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *QuoteRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}
