// Package intel module wiring: fetchers, prober, summarizer, repository, and
// the admin intelligence routes.
package intel

import (
	"risclens_backend/internal/audit"
	"risclens_backend/internal/events"
	apphttp "risclens_backend/internal/http"
	"risclens_backend/internal/intel/fetch"
	"risclens_backend/internal/intel/probe"
	"risclens_backend/internal/intel/summary"
	"risclens_backend/platform/config"
	"risclens_backend/platform/logger"
	"risclens_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the intelligence bounded context implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and wires the intelligence module. archiver, enqueuer,
// and auditor are optional and may be nil.
func NewModule(
	pool *pgxpool.Pool,
	bus events.Bus,
	val *validator.Validator,
	cfg *config.Config,
	archiver Archiver,
	enqueuer Enqueuer,
	auditor *audit.Logger,
	log *logger.Logger,
) *Module {
	direct := fetch.NewDirectFetcher(0, log)

	var browser fetch.Fetcher
	if cfg.IsBrowserlessEnabled() {
		browser = fetch.NewBrowserlessFetcher(cfg.GetBrowserlessBaseURL(), cfg.GetBrowserlessAPIKey(), log)
	}

	prober := probe.New(browser, direct, probe.Options{
		Paths:            cfg.GetProbePaths(),
		SecurityKeywords: cfg.GetSecurityKeywords(),
		Interval:         cfg.GetProbeInterval(),
	}, log)

	summarizer := summary.NewClient(cfg, log)
	repo := NewRepository(pool)

	svc := NewService(prober, summarizer, repo, archiver, auditor, bus, cfg.IsBrowserlessEnabled(), log)
	h := NewHandler(svc, enqueuer, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "intel"
}

// Service exposes the extraction orchestrator for the scheduler worker and
// batch CLI.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts intelligence routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/intelligence"))
}

var _ apphttp.Module = (*Module)(nil)
