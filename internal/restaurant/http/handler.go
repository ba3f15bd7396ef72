package http

import (
	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/restaurant/service"
)

// Handler handles HTTP requests for restaurant menus and hours
type Handler struct {
	menuService  *service.MenuService
	hoursService *service.HoursService
}

// New creates a new Handler
func New(menuService *service.MenuService, hoursService *service.HoursService) *Handler {
	return &Handler{menuService: menuService, hoursService: hoursService}
}

// Register registers the public restaurant routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/hours", h.GetHours)
	rg.GET("/menu", h.GetDailyMenu)
	rg.GET("/menu/weekly", h.GetWeeklyMenu)
}

// RegisterProtected registers the routes that change menus or hours
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.PUT("/hours", h.UpdateHours)
	rg.POST("/menu/upload", h.UploadMenu)
}
