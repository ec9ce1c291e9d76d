package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore reads the tool directory from Postgres.
type PgStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) ListActiveTools(ctx context.Context) ([]Tool, error) {
	query := `
		SELECT id, slug, name, COALESCE(tagline, ''), COALESCE(description, ''),
		       COALESCE(website_url, ''), frameworks_supported,
		       COALESCE(g2_rating, 0), display_order
		FROM compliance_tools
		WHERE is_active = true
		ORDER BY display_order, name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list compliance tools: %w", err)
	}
	defer rows.Close()

	var tools []Tool
	for rows.Next() {
		var t Tool
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Tagline, &t.Description,
			&t.WebsiteURL, &t.FrameworksSupported, &t.G2Rating, &t.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan compliance tool: %w", err)
		}
		tools = append(tools, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compliance tools: %w", err)
	}
	return tools, nil
}

var _ ToolStore = (*PgStore)(nil)
