package pendingvotes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/votofacil/votofacil/internal/common"
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

func (r *SQLiteRepository) Append(ctx context.Context, rec *models.PendingVote) (int64, error) {
	query := `INSERT INTO pending_votes (vote_id, election_id, candidate_id, blank, voter_id, cast_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		rec.VoteID, rec.ElectionID, rec.CandidateID, rec.Blank, rec.VoterID,
		rec.CastAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("%w: appending pending vote: %v", common.ErrStorageUnavailable, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: appending pending vote: %v", common.ErrStorageUnavailable, err)
	}
	rec.Seq = seq
	return seq, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.PendingVote, error) {
	query := `SELECT seq, vote_id, election_id, candidate_id, blank, voter_id, cast_at
		FROM pending_votes ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting pending votes: %v", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var result []models.PendingVote
	for rows.Next() {
		var item models.PendingVote
		var candidateID sql.NullString
		var castAt string
		if err := rows.Scan(&item.Seq, &item.VoteID, &item.ElectionID, &candidateID,
			&item.Blank, &item.VoterID, &castAt); err != nil {
			return nil, fmt.Errorf("%w: scanning pending vote: %v", common.ErrStorageUnavailable, err)
		}
		if candidateID.Valid {
			v := candidateID.String
			item.CandidateID = &v
		}
		item.CastAt, _ = time.Parse(time.RFC3339Nano, castAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading pending votes: %v", common.ErrStorageUnavailable, err)
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, seq int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_votes WHERE seq=?`, seq)
	if err != nil {
		return fmt.Errorf("%w: removing pending vote: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}
