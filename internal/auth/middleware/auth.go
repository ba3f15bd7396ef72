package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/response"
	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/auth"
)

// Protect validates the bearer token (or the accessToken cookie) with
// verifier and stores the principal in the gin context.
func Protect(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if errors.Is(err, auth.ErrTokenExpired) {
			response.Error(c, apperror.Unauthorized("Token expired").WithCode("TOKEN_EXPIRED"))
			return
		}
		if err != nil {
			response.Error(c, apperror.Unauthorized("Invalid token"))
			return
		}

		c.Set(auth.CtxPrincipal, principal)
		c.Next()
	}
}

// RestrictTo admits only principals whose role is listed. It must run after
// Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c)
		if !ok {
			response.Error(c, apperror.Unauthorized("Not authorized to access this route"))
			return
		}
		if !slices.Contains(roles, p.Role) {
			response.Error(c, apperror.Forbidden("Not authorized to perform this action"))
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}
