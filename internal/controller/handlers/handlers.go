package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codingships/honestSpanish-sub001/internal/service"
)

// Handlers wires the scheduling services to the HTTP surface.
type Handlers struct {
	availability *service.AvailabilityService
	slots        *service.SlotService
	sessions     *service.SessionService

	now func() time.Time
}

func New(
	availability *service.AvailabilityService,
	slots *service.SlotService,
	sessions *service.SessionService,
) *Handlers {
	return &Handlers{
		availability: availability,
		slots:        slots,
		sessions:     sessions,
		now:          time.Now,
	}
}

// Register mounts all routes under /api/v1 behind the identity middleware.
func (h *Handlers) Register(e *echo.Echo) {
	api := e.Group("/api/v1", identityMiddleware)

	api.GET("/teachers/:teacherID/slots", h.listSlots)
	api.GET("/teachers/:teacherID/timezone", h.getTimezone)
	api.PUT("/teachers/:teacherID/timezone", h.setTimezone)

	api.POST("/availability", h.createRule)
	api.GET("/availability", h.listRules)
	api.DELETE("/availability/:ruleID", h.deleteRule)

	api.POST("/sessions", h.createSession)
	api.POST("/sessions/bulk", h.createBulkSessions)
	api.POST("/sessions/:sessionID/actions", h.sessionAction)
	api.GET("/sessions", h.listSessions)
	api.GET("/sessions/:sessionID", h.getSession)
}
