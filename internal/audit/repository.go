package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists audit events to Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertEvent writes one scrubbed event. The payload column is jsonb.
func (r *Repository) InsertEvent(ctx context.Context, eventType string, payload map[string]any) error {
	query := `
		INSERT INTO audit_events (id, event_type, payload, created_at)
		VALUES ($1, $2, $3, now())`

	if _, err := r.db.Exec(ctx, query, uuid.New(), eventType, payload); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
