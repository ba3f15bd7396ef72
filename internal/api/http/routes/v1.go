package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/auth"
	authmw "github.com/goldenage-community/goldenage-backend/internal/auth/middleware"
	poolhttp "github.com/goldenage-community/goldenage-backend/internal/pool/http"
	poolservice "github.com/goldenage-community/goldenage-backend/internal/pool/service"
	restauranthttp "github.com/goldenage-community/goldenage-backend/internal/restaurant/http"
	restaurantservice "github.com/goldenage-community/goldenage-backend/internal/restaurant/service"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
)

type APIDeps struct {
	Store       snapshots.Store
	Verifier    auth.TokenVerifier
	RateLimiter *middleware.RateLimiter
}

// RegisterAPI mounts the pool and restaurant routes under /api. Reads are
// public; writes need an admin or staff principal.
func RegisterAPI(r *gin.Engine, dep APIDeps) {
	api := r.Group("/api")
	if dep.RateLimiter != nil {
		api.Use(dep.RateLimiter.Middleware())
	}
	api.Use(middleware.XMLBody())

	protect := []gin.HandlerFunc{
		authmw.Protect(dep.Verifier),
		authmw.RestrictTo(auth.RoleAdmin, auth.RoleStaff),
	}

	poolHandler := poolhttp.New(poolservice.NewPoolService(dep.Store))
	pool := api.Group("/pool")
	poolHandler.Register(pool)
	poolHandler.RegisterProtected(pool.Group("", protect...))

	restaurantHandler := restauranthttp.New(
		restaurantservice.NewMenuService(dep.Store),
		restaurantservice.NewHoursService(dep.Store),
	)
	restaurant := api.Group("/restaurant")
	restaurantHandler.Register(restaurant)
	restaurantHandler.RegisterProtected(restaurant.Group("", protect...))

	r.NoRoute(middleware.NotFound())
}
