package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fotogram/internal/config"
	"fotogram/internal/observability"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// Schema modes selected by DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// ErrSQLMigrationsUnsupported is returned when SQL migrations are requested against a
// sqlite database. The embedded scripts are PostgreSQL-only.
var ErrSQLMigrationsUnsupported = errors.New("sql migrations are postgres-only, use the auto schema mode on sqlite")

// SchemaStatus describes what ApplySchema would do against the current database.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeHybrid
	}
	return mode
}

// schemaPolicy decides which of the two schema paths run. The embedded SQL is written
// for PostgreSQL, so sqlite databases are always built from the registry.
func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	mode := normalizedSchemaMode(cfg)
	prodLike := isProdLikeEnv(cfg.Env)

	if cfg.DBDriver == config.DriverSQLite {
		if mode != SchemaModeHybrid && mode != SchemaModeSQL && mode != SchemaModeAuto {
			return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
		}
		return false, true, nil
	}

	switch mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		if prodLike {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q", cfg.Env)
		}
		return false, true, nil
	case SchemaModeHybrid:
		return true, !prodLike, nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

func requireSQLMigrations(db *gorm.DB, cfg *config.Config) error {
	if cfg.DBDriver == config.DriverSQLite || Dialect(db) == config.DriverSQLite {
		return ErrSQLMigrationsUnsupported
	}
	return nil
}

// MigrateUp applies every pending embedded SQL migration.
func MigrateUp(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if err := requireSQLMigrations(db, cfg); err != nil {
		return err
	}
	migrations, err := GetMigrations()
	if err != nil {
		return err
	}
	return RunMigrations(ctx, db, migrations)
}

// MigrateDown rolls back the embedded SQL migration with the given version.
func MigrateDown(ctx context.Context, db *gorm.DB, cfg *config.Config, version int) error {
	if err := requireSQLMigrations(db, cfg); err != nil {
		return err
	}
	migrations, err := GetMigrations()
	if err != nil {
		return err
	}
	return RollbackMigration(ctx, db, migrations, version)
}

// Migrate checks the registry against gorm's view of the models and then creates or
// updates every registered table, in foreign-key order.
func Migrate(ctx context.Context, db *gorm.DB, reg *schema.Registry) error {
	if err := reg.Verify(db); err != nil {
		return fmt.Errorf("schema registry out of sync with models: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(reg.Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// ApplySchema brings the database schema up to date according to cfg.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config, reg *schema.Registry) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		migrations, err := GetMigrations()
		if err != nil {
			return err
		}
		if err := RunMigrations(ctx, db, migrations); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if runAuto {
		observability.Logger.InfoContext(ctx, "Running GORM AutoMigrate",
			slog.String("mode", normalizedSchemaMode(cfg)),
			slog.String("env", cfg.Env),
			slog.String("driver", cfg.DBDriver),
		)
		if err := Migrate(ctx, db, reg); err != nil {
			return err
		}
	}

	return nil
}

// GetSchemaStatus reports the schema policy for cfg and, when SQL migrations are in
// play, which versions are applied and which are pending.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
	}

	if !runSQL {
		return status, nil
	}

	migrations, err := GetMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	appliedSet := make(map[int]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}
	for _, m := range migrations {
		if !appliedSet[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}

	return status, nil
}
