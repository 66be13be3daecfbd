package voters

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Voter) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM voters`); err != nil {
			return err
		}
		query := `INSERT INTO voters (id, election_id, access_code, name, voted, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
		for _, v := range items {
			if _, err := tx.ExecContext(ctx, query,
				v.ID, v.ElectionID, v.AccessCode, v.Name, v.Voted,
				v.CreatedAt.Format(time.RFC3339Nano)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: replacing voters: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Voter, error) {
	query := `SELECT id, election_id, access_code, name, voted, created_at FROM voters`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting voters: %v", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var result []models.Voter
	for rows.Next() {
		item, err := scanVoter(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning voter: %v", common.ErrStorageUnavailable, err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading voters: %v", common.ErrStorageUnavailable, err)
	}
	return result, nil
}

func (r *SQLiteRepository) FindByCode(ctx context.Context, accessCode, electionID string) (*models.Voter, error) {
	query := `SELECT id, election_id, access_code, name, voted, created_at
		FROM voters WHERE access_code=? AND election_id=?`
	row := r.db.QueryRowContext(ctx, query, accessCode, electionID)

	item, err := scanVoter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding voter: %v", common.ErrStorageUnavailable, err)
	}
	return item, nil
}

// MarkVoted only ever sets the flag; there is deliberately no way to clear it.
func (r *SQLiteRepository) MarkVoted(ctx context.Context, voterID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE voters SET voted=1 WHERE id=?`, voterID)
	if err != nil {
		return fmt.Errorf("%w: marking voter: %v", common.ErrStorageUnavailable, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: marking voter: %v", common.ErrStorageUnavailable, err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanVoter(scan func(dest ...any) error) (*models.Voter, error) {
	var item models.Voter
	var createdAt string
	if err := scan(&item.ID, &item.ElectionID, &item.AccessCode, &item.Name,
		&item.Voted, &createdAt); err != nil {
		return nil, err
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &item, nil
}
