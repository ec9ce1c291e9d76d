package intel

import (
	"context"
	"errors"
	"fmt"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository stores extraction results in the company_signals table,
// keyed by the normalized domain slug.
type PgRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: db}
}

// UpsertSignals inserts or replaces the stored result for a domain. Each run
// overwrites the previous one in full; there is no history table.
func (r *PgRepository) UpsertSignals(ctx context.Context, result domain.ExtractionResult) error {
	query := `
		INSERT INTO company_signals (
			domain, markers, score_breakdown, final_score, indexable,
			ai_summary, discovered_urls, security_links, detected_tools,
			detected_certifications, scrape_method, extracted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (domain) DO UPDATE SET
			markers = EXCLUDED.markers,
			score_breakdown = EXCLUDED.score_breakdown,
			final_score = EXCLUDED.final_score,
			indexable = EXCLUDED.indexable,
			ai_summary = EXCLUDED.ai_summary,
			discovered_urls = EXCLUDED.discovered_urls,
			security_links = EXCLUDED.security_links,
			detected_tools = EXCLUDED.detected_tools,
			detected_certifications = EXCLUDED.detected_certifications,
			scrape_method = EXCLUDED.scrape_method,
			extracted_at = EXCLUDED.extracted_at,
			updated_at = now()`

	_, err := r.db.Exec(ctx, query,
		result.Domain,
		result.Markers,
		result.ScoreBreakdown,
		result.FinalScore,
		result.Indexable,
		result.AISummary,
		result.DiscoveredURLs,
		result.SecurityLinks,
		result.DetectedTools,
		result.DetectedCertifications,
		result.ScrapeMethod,
		result.ExtractedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company_signals: %w", err)
	}
	return nil
}

// GetBySlug reads the stored result for a domain slug.
func (r *PgRepository) GetBySlug(ctx context.Context, slug string) (*domain.ExtractionResult, error) {
	query := `
		SELECT domain, markers, score_breakdown, final_score, indexable,
		       ai_summary, discovered_urls, security_links, detected_tools,
		       detected_certifications, scrape_method, extracted_at
		FROM company_signals
		WHERE domain = $1`

	var result domain.ExtractionResult
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&result.Domain,
		&result.Markers,
		&result.ScoreBreakdown,
		&result.FinalScore,
		&result.Indexable,
		&result.AISummary,
		&result.DiscoveredURLs,
		&result.SecurityLinks,
		&result.DetectedTools,
		&result.DetectedCertifications,
		&result.ScrapeMethod,
		&result.ExtractedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("company signals not found")
		}
		return nil, fmt.Errorf("get company_signals: %w", err)
	}
	return &result, nil
}

var _ Repository = (*PgRepository)(nil)
