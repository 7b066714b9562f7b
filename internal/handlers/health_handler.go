package handlers

import (
	"time"

	"github.com/benote/benote-core/internal/database"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/relations"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	graph   *relations.Graph
	modules int
}

func NewHealthHandler(db *gorm.DB, graph *relations.Graph, modules int) *HealthHandler {
	return &HealthHandler{db: db, graph: graph, modules: modules}
}

// Check reports database reachability and the size of the loaded schema.
// An unreachable database answers 503.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	code := fiber.StatusOK
	if err := database.Ping(h.db); err != nil {
		status, dbStatus = "degraded", "unhealthy: "+err.Error()
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Modules:   h.modules,
		Graph:     h.graph.Stats(),
	})
}
