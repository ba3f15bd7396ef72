package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/api/http/response"
)

const maxHoursBody = 64 << 10

// GetHours returns the stored restaurant hours document
func (h *Handler) GetHours(c *gin.Context) {
	hours, err := h.hoursService.GetHours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", hours)
}

// UpdateHours stores a new restaurant hours document
func (h *Handler) UpdateHours(c *gin.Context) {
	body, err := middleware.ReadBody(c, maxHoursBody)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.hoursService.UpdateHours(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurant hours updated successfully", gin.H{"id": snap.ID})
}

// GetDailyMenu returns the menu for ?date=YYYY-MM-DD, today by default
func (h *Handler) GetDailyMenu(c *gin.Context) {
	menu, err := h.menuService.GetDailyMenu(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// GetWeeklyMenu returns the Sunday..Saturday menus around ?startDate
func (h *Handler) GetWeeklyMenu(c *gin.Context) {
	week, err := h.menuService.GetWeeklyMenu(c.Request.Context(), c.Query("startDate"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// UploadMenu creates or replaces the menu for the document's date
func (h *Handler) UploadMenu(c *gin.Context) {
	root, err := middleware.BodyTree(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	date, created, err := h.menuService.UploadMenu(c.Request.Context(), root)
	if err != nil {
		response.Error(c, err)
		return
	}

	status, verb := http.StatusOK, "updated"
	if created {
		status, verb = http.StatusCreated, "created"
	}
	response.Success(c, status, "Menu "+verb+" successfully for "+date, gin.H{"date": date})
}
