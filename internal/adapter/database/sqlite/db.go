package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"taskboard/db/migrations"
)

const driverName = "sqlite3"

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	DSN         string
	ServiceName string
	Logger      zerolog.Logger
}

// NewDB opens a traced, logged pool on opts.DSN and migrates it.
func NewDB(opts Options) (*DB, error) {
	tracedDB, err := otelsql.Open(driverName, opts.DSN,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName(opts.ServiceName),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	db := sqldblogger.OpenDriver(opts.DSN, tracedDB.Driver(), zerologadapter.New(opts.Logger))
	tracedDB.Close()

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return Wrap(db), nil
}

// Open returns a migrated database without tracing or query logging.
func Open(dsn string) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)

	if err != nil {
		return nil, err
	}

	// one connection keeps shared in-memory databases alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return Wrap(sqlDB), nil
}

func Wrap(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

// RunMigrations applies the embedded schema. It does not close db.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.SQLite, "sqlite")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
