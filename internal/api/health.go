package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/internal/domain/dto"
)

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /api/health: Readiness detail (chatbot initialized, data loaded).
type HealthHandler struct {
	initialized func() bool // chatbot wired up (API credential present)
	dataLoaded  func() bool // at least one CSV table loaded
}

// NewHealthHandler constructs a HealthHandler from the two probe functions.
func NewHealthHandler(initialized, dataLoaded func() bool) *HealthHandler {
	return &HealthHandler{initialized: initialized, dataLoaded: dataLoaded}
}

// Register mounts the health endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /api/health: Returns service status detail; the HTTP status is
//     always 200, clients inspect the body flags.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness detail (chatbot + data state)
	// @Summary      Service health detail
	// @Description  Reports whether the chatbot is initialized and data is loaded
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  dto.HealthResponse
	// @Router       /api/health [get]
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, dto.HealthResponse{
			Status:             "healthy",
			ChatbotInitialized: h.initialized != nil && h.initialized(),
			DataLoaded:         h.dataLoaded != nil && h.dataLoaded(),
		})
	})
}
