package postgres

import (
	"fmt"

	"github.com/goldenage-community/goldenage-backend/config"
)

// DSN returns cfg.DSN when set, otherwise a key/value connection string
// understood by both lib/pq and pgx.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode,
	)
}
