package http

import (
	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/pool/service"
)

// Handler handles HTTP requests for pool hours
type Handler struct {
	poolService *service.PoolService
}

// New creates a new Handler
func New(poolService *service.PoolService) *Handler {
	return &Handler{poolService: poolService}
}

// Register registers the public pool routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/hours", h.GetHours)
	rg.GET("/hours/versions", h.ListVersions)
	rg.GET("/hours/versions/:id", h.GetVersion)
}

// RegisterProtected registers the routes that mutate pool hours. The caller
// supplies the auth middleware on rg.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.PUT("/hours", h.UpdateHours)
	rg.POST("/hours", h.UpdateHours)
	rg.POST("/hours/special", h.AddSpecialHours)
	rg.DELETE("/hours/special/:date", h.RemoveSpecialHours)
}
