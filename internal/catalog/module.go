package catalog

import (
	"risclens_backend/platform/httpkit"
	"risclens_backend/platform/logger"

	apphttp "risclens_backend/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context implementing http.Module.
type Module struct {
	service *Service
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{service: NewService(NewStore(pool), DefaultTTL, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// RegisterRoutes mounts the public tool directory route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/tools", m.listTools)
}

func (m *Module) listTools(c *gin.Context) {
	tools, err := m.service.Tools(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"tools": tools})
}

var _ apphttp.Module = (*Module)(nil)
