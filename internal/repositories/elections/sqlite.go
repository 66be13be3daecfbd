package elections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/dbx"
	"github.com/votofacil/votofacil/internal/models"
)

// SQLiteRepository implements Repository on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Election) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM elections`); err != nil {
			return err
		}
		query := `INSERT INTO elections (id, name, date, type, active, created_by, created_at, finalized_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		for _, e := range items {
			var finalized any
			if e.FinalizedAt != nil {
				finalized = e.FinalizedAt.Format(time.RFC3339Nano)
			}
			if _, err := tx.ExecContext(ctx, query,
				e.ID, e.Name, e.Date, e.Type, e.Active, e.CreatedBy,
				e.CreatedAt.Format(time.RFC3339Nano), finalized); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: replacing elections: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Election, error) {
	query := `SELECT id, name, date, type, active, created_by, created_at, finalized_at FROM elections`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting elections: %v", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var result []models.Election
	for rows.Next() {
		var item models.Election
		var createdAt string
		var finalizedAt sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Date, &item.Type, &item.Active,
			&item.CreatedBy, &createdAt, &finalizedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning election: %v", common.ErrStorageUnavailable, err)
		}
		item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if finalizedAt.Valid {
			if ts, perr := time.Parse(time.RFC3339Nano, finalizedAt.String); perr == nil {
				item.FinalizedAt = &ts
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading elections: %v", common.ErrStorageUnavailable, err)
	}
	return result, nil
}
