// Package repositories opens the local cache store and bundles its four
// partitions: elections, candidates, voters and the pending-votes queue.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/votofacil/votofacil/internal/migrations"
	"github.com/votofacil/votofacil/internal/repositories/candidates"
	"github.com/votofacil/votofacil/internal/repositories/elections"
	"github.com/votofacil/votofacil/internal/repositories/pendingvotes"
	"github.com/votofacil/votofacil/internal/repositories/voters"
)

type Repositories struct {
	Elections  elections.Repository
	Candidates candidates.Repository
	Voters     voters.Repository
	Pending    pendingvotes.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite cache at dsn, applies
// migrations and returns the partition repositories together with the raw
// handle so the caller can close it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Elections:  elections.NewSQLiteRepository(db),
		Candidates: candidates.NewSQLiteRepository(db),
		Voters:     voters.NewSQLiteRepository(db),
		Pending:    pendingvotes.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
