package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository implements domain.DocumentRepository using PostgreSQL
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Get returns the stored bytes for key, or domain.ErrDocumentNotFound
func (r *DocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := r.pool.QueryRow(ctx,
		`SELECT body::text FROM documents WHERE key = $1`, key,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("read document %q: %w", key, err)
	}
	return body, nil
}

// Put overwrites the whole document stored under key. A body that is not
// valid JSON is rejected by the JSONB column.
func (r *DocumentRepository) Put(ctx context.Context, key string, data []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
