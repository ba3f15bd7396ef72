package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goldenage-community/goldenage-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Name: "golden_age"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=golden_age sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")

	cfg.DSN = "postgres://app@db/golden_age"
	assert.Equal(t, "postgres://app@db/golden_age", DSN(cfg))
}
