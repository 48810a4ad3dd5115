package sqlite

import (
	"database/sql"
	"fmt"
	"net/http"

	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"

	"github.com/juho05/log"

	"github.com/juho05/jobmatch"
	"github.com/juho05/jobmatch/config"
	"github.com/juho05/jobmatch/repos"
)

type DB struct {
	db *sql.DB
}

func autoMigrate(db *sql.DB) error {
	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(jobmatch.SQLiteMigrationsFS),
	}
	log.Trace("Migrating database...")
	n, err := migrate.Exec(db, "sqlite3", migrations, migrate.Up)
	log.Tracef("Applied %d migrations!", n)
	if err != nil {
		return err
	}
	return nil
}

func Connect(connectionString string) (repos.DB, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	_, err = db.Exec("PRAGMA busy_timeout = 3000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if config.AutoMigrate() {
		err = autoMigrate(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return &DB{
		db: db,
	}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
