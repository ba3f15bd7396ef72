package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/api/http/response"
	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/pool/domain"
)

// GetHours returns the current pool hours in client shape
func (h *Handler) GetHours(c *gin.Context) {
	view, snap, err := h.poolService.GetHours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("ETag", etag(snap.ID))
	c.JSON(http.StatusOK, view)
}

// UpdateHours replaces the pool hours with the submitted XML document
func (h *Handler) UpdateHours(c *gin.Context) {
	root, err := middleware.BodyTree(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.poolService.ReplaceHours(c.Request.Context(), root)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("ETag", etag(snap.ID))
	response.Success(c, http.StatusCreated, "Pool hours updated successfully", gin.H{"id": snap.ID})
}

// AddSpecialHours adds or replaces the special hours for one date
func (h *Handler) AddSpecialHours(c *gin.Context) {
	var body domain.SpecialDayRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("Date and hours are required"))
		return
	}
	body.Date = strings.TrimSpace(body.Date)
	body.Hours = strings.TrimSpace(body.Hours)
	pre, err := precondition(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.poolService.AddSpecialDay(c.Request.Context(), body, pre)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("ETag", etag(snap.ID))
	response.Success(c, http.StatusCreated, "Special hours added/updated for "+body.Date, gin.H{
		"date":   body.Date,
		"hours":  body.Hours,
		"reason": body.Reason,
	})
}

// RemoveSpecialHours removes the special hours for one date
func (h *Handler) RemoveSpecialHours(c *gin.Context) {
	date := strings.TrimSpace(c.Param("date"))
	pre, err := precondition(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.poolService.RemoveSpecialDay(c.Request.Context(), date, pre)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("ETag", etag(snap.ID))
	response.Success(c, http.StatusOK, "Special hours removed for "+date, gin.H{"date": date})
}

// ListVersions lists stored pool-hours versions, newest first
func (h *Handler) ListVersions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	versions, err := h.poolService.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// GetVersion returns one stored version in client shape
func (h *Handler) GetVersion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, apperror.Validation("Invalid version id"))
		return
	}

	view, snap, err := h.poolService.GetVersion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("ETag", etag(snap.ID))
	c.JSON(http.StatusOK, view)
}

func etag(id int64) string {
	return `"` + strconv.FormatInt(id, 10) + `"`
}

// precondition reads an optional If-Match: "<snapshot id>" header.
func precondition(c *gin.Context) (domain.Precondition, error) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return domain.Precondition{}, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	id, err := strconv.ParseInt(strings.Trim(raw, `"`), 10, 64)
	if err != nil || id < 1 {
		return domain.Precondition{}, apperror.Validation("If-Match must carry a snapshot id")
	}
	return domain.Precondition{SnapshotID: id}, nil
}
