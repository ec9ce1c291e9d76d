package dispatch

import (
	"context"

	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	apphttp "risclens_backend/internal/http"
	"risclens_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dispatch bounded context implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule wires the dispatch module and subscribes it to lead finalization
// events so finalized leads are dispatched without an explicit admin call.
func NewModule(pool *pgxpool.Pool, bus events.Bus, auditor *audit.Logger, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, bus, auditor, log)

	bus.Subscribe(events.EventLeadFinalized, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadFinalized)
		if !ok {
			return nil
		}
		if err := svc.Dispatch(ctx, e.LeadID); err != nil {
			log.Error("event-driven dispatch failed", "lead_id", e.LeadID, "error", err.Error())
		}
		return nil
	}))

	return &Module{handler: NewHandler(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dispatch"
}

// Service exposes the dispatch service for other composition roots.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts dispatch routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)
