// Package database opens the port.Store selected by configuration.
package database

import (
	"context"
	"fmt"

	"taskboard/internal/adapter/database/mongodb"
	mongorepo "taskboard/internal/adapter/database/mongodb/repository"
	"taskboard/internal/adapter/database/postgres"
	pgrepo "taskboard/internal/adapter/database/postgres/repository"
	"taskboard/internal/adapter/database/sqlite"
	sqliterepo "taskboard/internal/adapter/database/sqlite/repository"
	"taskboard/internal/core/port"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
)

func Open(ctx context.Context, cfg *config.AppConfig, log *logger.Logger, probe port.Telemetry) (port.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(sqlite.Options{
			DSN:         cfg.Database.SQLitePath,
			ServiceName: cfg.ServiceName,
			Logger:      log.Zerolog(cfg.Log.Level),
		})

		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		return sqliterepo.NewStore(db, probe), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database.PostgresURL)

		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		return pgrepo.NewStore(db, probe), nil

	case config.DriverMongo:
		db, err := mongodb.NewDB(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase)

		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}

		return mongorepo.NewStore(db, probe), nil
	}

	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
