package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goldenage-community/goldenage-backend/config"
	"github.com/goldenage-community/goldenage-backend/internal/auth"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots/repository"
)

// Storage holds the open connections behind the snapshot store. Only the
// ones the configured backend needs are set.
type Storage struct {
	Store snapshots.Store
	DB    *sql.DB
	Redis *redis.Client
}

// Close releases every open connection.
func (s *Storage) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

// OpenStorage opens the snapshot backend selected by cfg.Storage.Backend.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		rdb, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Storage{Store: repository.NewRedisStore(rdb), Redis: rdb}, nil
	case config.BackendSQL:
		db, dialect, err := OpenDB(ctx, DBOptions{Config: &cfg.Database})
		if err != nil {
			return nil, err
		}
		return &Storage{Store: repository.NewSQLStore(db, dialect), DB: db}, nil
	}
	return nil, fmt.Errorf("unsupported snapshot backend %q", cfg.Storage.Backend)
}

// NewVerifier builds the token verifier for cfg.Auth.Provider.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (auth.TokenVerifier, error) {
	switch cfg.Provider {
	case config.AuthJWT:
		return auth.NewJWTVerifier(cfg.JWTSecret), nil
	case config.AuthFirebase:
		client, err := auth.InitializeFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseVerifier(client), nil
	}
	return nil, fmt.Errorf("unsupported auth provider %q", cfg.Provider)
}
