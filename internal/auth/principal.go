// Package auth resolves the authenticated principal that mutating routes
// require. Verifiers turn a bearer token into a Principal; the middleware
// package stores it on the gin context.
package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

const CtxPrincipal = "principal"

const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleResident = "resident"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Principal is the caller behind a verified token.
type Principal struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
}

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// PrincipalFrom returns the principal stored by the auth middleware.
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
