package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/config"
	httpapi "github.com/goldenage-community/goldenage-backend/internal/api/http"
	"github.com/goldenage-community/goldenage-backend/internal/api/http/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/api/http/routes"
	"github.com/goldenage-community/goldenage-backend/internal/auth"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Storage     *Storage
	Verifier    auth.TokenVerifier
	Logger      *slog.Logger
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	// The rate limiter keys on ClientIP, so only configured proxies may
	// supply X-Forwarded-For.
	if err := r.SetTrustedProxies(dep.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	if c, ok := corsConfig(dep.Config.Server.CORSOrigin); ok {
		r.Use(cors.New(c))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version, dep.Storage.DB, dep.Storage.Redis)
	healthHandler.RegisterRoutes(r)

	routes.RegisterAPI(r, routes.APIDeps{
		Store:       dep.Storage.Store,
		Verifier:    dep.Verifier,
		RateLimiter: middleware.NewRateLimiter(dep.Config.Server.RateLimitWindow, dep.Config.Server.RateLimitMax),
	})

	return r, nil
}

// corsConfig reads CORS_ORIGIN: "*" allows any origin, a comma separated
// list allows those, empty disables CORS.
func corsConfig(origin string) (cors.Config, bool) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return cors.Config{}, false
	}

	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-Match", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"ETag", middleware.HeaderRequestID},
		AllowCredentials: origin != "*",
		MaxAge:           12 * time.Hour,
	}
	if origin == "*" {
		c.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowOrigins = append(c.AllowOrigins, o)
			}
		}
	}
	return c, true
}
