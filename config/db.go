package config

import (
	"context"
	"fmt"

	"portfolio/store"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

// OpenStore connects to the database selected by DB_DRIVER.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		s, err := store.OpenGorm(postgres.Open(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return s, nil
	case DriverSQLite:
		s, err := store.OpenGorm(sqlite.Open(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return s, nil
	case DriverMongo:
		return store.NewMongoStore(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
