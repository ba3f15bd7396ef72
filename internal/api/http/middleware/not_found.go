package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/response"
	"github.com/goldenage-community/goldenage-backend/internal/apperror"
)

// NotFound answers unmatched routes with the standard failure envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, apperror.NotFound("Cannot %s %s", c.Request.Method, c.Request.URL.RequestURI()))
	}
}

// Recovery turns panics into 500 INTERNAL_ERROR envelopes.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, apperror.Internal(fmt.Errorf("panic: %v", recovered), "Something went wrong"))
	})
}
