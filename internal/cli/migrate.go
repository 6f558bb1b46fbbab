package cli

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"live-quiz-service/internal/config"
	pgmigrations "live-quiz-service/internal/infra/postgres/migrations"
)

var errNoPostgres = errors.New("postgres url not configured")

// NewMigrateCmd manages the quizzes and submissions schema.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back) the quizzes and submissions schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			if rollback {
				return rollbackSchema(cmd.Context(), cfg, logger)
			}
			return migrateSchema(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last applied migration group")
	return cmd
}

// withMigrator opens a bun handle on the configured database for the duration of fn.
func withMigrator(ctx context.Context, cfg config.Config, fn func(*migrate.Migrator) error) error {
	if cfg.Postgres.URL == "" {
		return errNoPostgres
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	return fn(migrator)
}

func migrateSchema(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) error {
	return withMigrator(ctx, cfg, func(m *migrate.Migrator) error {
		group, err := m.Migrate(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info("schema up to date")
			return nil
		}
		logger.WithField("group", group.String()).Info("migrations applied")
		return nil
	})
}

func rollbackSchema(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) error {
	return withMigrator(ctx, cfg, func(m *migrate.Migrator) error {
		group, err := m.Rollback(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			logger.Info("nothing to roll back")
			return nil
		}
		logger.WithField("group", group.String()).Warn("migrations rolled back")
		return nil
	})
}
