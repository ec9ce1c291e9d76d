// Package catalog serves the public compliance-tool directory. The tool list
// changes rarely and is read on every public page render, so reads go through
// an atomically swapped snapshot with a TTL instead of hitting the database.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"risclens_backend/platform/logger"

	"github.com/google/uuid"
)

// DefaultTTL is how long a snapshot is served before a refresh.
const DefaultTTL = 10 * time.Minute

// Tool is one vendor in the public directory.
type Tool struct {
	ID                  uuid.UUID `json:"id"`
	Slug                string    `json:"slug"`
	Name                string    `json:"name"`
	Tagline             string    `json:"tagline"`
	Description         string    `json:"description"`
	WebsiteURL          string    `json:"website_url"`
	FrameworksSupported []string  `json:"frameworks_supported"`
	G2Rating            float64   `json:"g2_rating"`
	DisplayOrder        int       `json:"display_order"`
}

// ToolStore reads active tools from persistence.
type ToolStore interface {
	ListActiveTools(ctx context.Context) ([]Tool, error)
}

type snapshot struct {
	tools     []Tool
	fetchedAt time.Time
}

// Service caches the tool directory. Reads are lock-free; the refresh path
// is serialized so a thundering herd after expiry issues one query.
type Service struct {
	store   ToolStore
	ttl     time.Duration
	now     func() time.Time
	current atomic.Pointer[snapshot]
	refresh sync.Mutex
	log     *logger.Logger
}

func NewService(store ToolStore, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

// Tools returns the cached directory, refreshing it when stale. A refresh
// failure with a previous snapshot available serves the stale data.
func (s *Service) Tools(ctx context.Context) ([]Tool, error) {
	if snap := s.current.Load(); snap != nil && s.now().Sub(snap.fetchedAt) < s.ttl {
		return snap.tools, nil
	}

	s.refresh.Lock()
	defer s.refresh.Unlock()

	// Another caller may have refreshed while this one waited for the lock.
	if snap := s.current.Load(); snap != nil && s.now().Sub(snap.fetchedAt) < s.ttl {
		return snap.tools, nil
	}

	tools, err := s.store.ListActiveTools(ctx)
	if err != nil {
		if snap := s.current.Load(); snap != nil {
			s.log.Warn("tool refresh failed, serving stale snapshot", "error", err.Error())
			return snap.tools, nil
		}
		return nil, fmt.Errorf("load compliance tools: %w", err)
	}

	s.current.Store(&snapshot{tools: tools, fetchedAt: s.now()})
	return tools, nil
}
