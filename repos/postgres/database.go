package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/juho05/log"

	"github.com/juho05/jobmatch"
	"github.com/juho05/jobmatch/config"
	"github.com/juho05/jobmatch/repos"
)

type DB struct {
	pool *pgxpool.Pool
}

func autoMigrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	defer db.Close()
	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(jobmatch.PostgresMigrationsFS),
	}
	log.Trace("Migrating database...")
	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	log.Tracef("Applied %d migrations!", n)
	if err != nil {
		return err
	}
	return nil
}

func Connect(ctx context.Context, dsn string) (repos.DB, error) {
	log.Tracef("Connecting to Postgres database...")
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	if config.AutoMigrate() {
		err = autoMigrate(dsn)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return &DB{
		pool: pool,
	}, nil
}

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
