package dispatch

import (
	"context"
	"errors"
	"fmt"

	"risclens_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence contract of the dispatch leg.
type Repository interface {
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListActiveBuyers(ctx context.Context) ([]Buyer, error)
	// MarkSold claims the lead for a buyer. It only succeeds once per lead;
	// the boolean reports whether this call made the claim.
	MarkSold(ctx context.Context, leadID uuid.UUID, buyerEmail string) (bool, error)
}

// PgRepository implements Repository on Postgres.
type PgRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(company_name, ''),
		       COALESCE(industry, ''), COALESCE(lead_type, ''),
		       COALESCE(score, 0), COALESCE(readiness_score, 0),
		       COALESCE(estimated_cost_low, 0), COALESCE(estimated_cost_high, 0),
		       COALESCE(num_employees, 0),
		       COALESCE(utm_source, ''), COALESCE(utm_medium, ''), COALESCE(utm_campaign, ''),
		       is_test, is_partial, sold, created_at
		FROM leads
		WHERE id = $1`

	var lead Lead
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lead.ID, &lead.Email, &lead.Company, &lead.Industry, &lead.LeadType,
		&lead.Score, &lead.ReadinessScore,
		&lead.EstimatedCostLow, &lead.EstimatedCostHigh, &lead.NumEmployees,
		&lead.UTMSource, &lead.UTMMedium, &lead.UTMCampaign,
		&lead.IsTest, &lead.IsPartial, &lead.Sold, &lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

// ListActiveBuyers loads active buyers together with their active webhooks.
// Buyers without any active webhook are still returned; the service skips
// them naturally during fan-out.
func (r *PgRepository) ListActiveBuyers(ctx context.Context) ([]Buyer, error) {
	buyersQuery := `
		SELECT id, name, COALESCE(contact_email, ''), active, lead_types, min_score
		FROM buyers
		WHERE active = true
		ORDER BY name`

	rows, err := r.db.Query(ctx, buyersQuery)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	var buyers []Buyer
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var b Buyer
		if err := rows.Scan(&b.ID, &b.Name, &b.ContactEmail, &b.Active, &b.LeadTypes, &b.MinScore); err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		index[b.ID] = len(buyers)
		buyers = append(buyers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	if len(buyers) == 0 {
		return nil, nil
	}

	webhooksQuery := `
		SELECT w.id, w.buyer_id, w.url,
		       COALESCE(w.secret_header, ''), COALESCE(w.secret_value, ''), w.is_active
		FROM buyer_webhooks w
		JOIN buyers b ON b.id = w.buyer_id
		WHERE b.active = true AND w.is_active = true`

	whRows, err := r.db.Query(ctx, webhooksQuery)
	if err != nil {
		return nil, fmt.Errorf("list buyer webhooks: %w", err)
	}
	defer whRows.Close()

	for whRows.Next() {
		var (
			wh      Webhook
			buyerID uuid.UUID
		)
		if err := whRows.Scan(&wh.ID, &buyerID, &wh.URL, &wh.SecretHeader, &wh.SecretValue, &wh.IsActive); err != nil {
			return nil, fmt.Errorf("scan buyer webhook: %w", err)
		}
		if i, ok := index[buyerID]; ok {
			buyers[i].Webhooks = append(buyers[i].Webhooks, wh)
		}
	}
	if err := whRows.Err(); err != nil {
		return nil, fmt.Errorf("list buyer webhooks: %w", err)
	}

	return buyers, nil
}

func (r *PgRepository) MarkSold(ctx context.Context, leadID uuid.UUID, buyerEmail string) (bool, error) {
	query := `
		UPDATE leads
		SET sold = true, status = 'sold', buyer_email = $2, updated_at = now()
		WHERE id = $1 AND sold = false`

	tag, err := r.db.Exec(ctx, query, leadID, buyerEmail)
	if err != nil {
		return false, fmt.Errorf("mark lead sold: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

var _ Repository = (*PgRepository)(nil)
