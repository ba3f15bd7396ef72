package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/goldenage-community/goldenage-backend/config"
)

// SetGinMode switches gin to release mode in production, which also hides
// error causes from failure envelopes.
func SetGinMode(cfg *config.Config) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.App.Environment == "test":
		gin.SetMode(gin.TestMode)
	}
}
