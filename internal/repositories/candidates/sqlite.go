package candidates

import (
	"context"
	"database/sql"
	"fmt"

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

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Candidate) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
			return err
		}
		query := `INSERT INTO candidates (id, election_id, number, name, description, photo_url)
			VALUES (?, ?, ?, ?, ?, ?)`
		for _, c := range items {
			if _, err := tx.ExecContext(ctx, query,
				c.ID, c.ElectionID, c.Number, c.Name, c.Description, c.PhotoURL); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: replacing candidates: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Candidate, error) {
	return r.query(ctx, `SELECT id, election_id, number, name, description, photo_url
		FROM candidates ORDER BY number`)
}

func (r *SQLiteRepository) ByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	return r.query(ctx, `SELECT id, election_id, number, name, description, photo_url
		FROM candidates WHERE election_id=? ORDER BY number`, electionID)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting candidates: %v", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var result []models.Candidate
	for rows.Next() {
		var item models.Candidate
		if err := rows.Scan(&item.ID, &item.ElectionID, &item.Number, &item.Name,
			&item.Description, &item.PhotoURL); err != nil {
			return nil, fmt.Errorf("%w: scanning candidate: %v", common.ErrStorageUnavailable, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading candidates: %v", common.ErrStorageUnavailable, err)
	}
	return result, nil
}
