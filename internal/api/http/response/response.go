// Package response writes the JSON envelopes shared by every handler.
package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
)

// Success writes {success: true, message, ...data}.
func Success(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the failure envelope for err and aborts the chain.
// Unknown errors become 500 INTERNAL_ERROR. The wrapped cause is only
// exposed while gin runs in debug mode.
func Error(c *gin.Context, err error) {
	ae := apperror.From(err)
	status := ae.Status()

	log := logging.FromContext(c.Request.Context())
	if status >= 500 {
		log.Error("request failed",
			"operation", c.FullPath(),
			"code", ae.ErrorCode(),
			"error", err)
	} else {
		log.Info("request rejected",
			"operation", c.FullPath(),
			"code", ae.ErrorCode(),
			"message", ae.Message)
	}

	details := gin.H{}
	for k, v := range ae.Details {
		details[k] = v
	}
	if gin.IsDebugging() {
		if cause := errors.Unwrap(ae); cause != nil {
			details["cause"] = cause.Error()
		}
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": ae.Message,
		"error": gin.H{
			"code":    ae.ErrorCode(),
			"details": details,
		},
	})
}
