package pendingvotes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/votofacil/votofacil/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_votes (
  seq          INTEGER PRIMARY KEY AUTOINCREMENT,
  vote_id      TEXT NOT NULL,
  election_id  TEXT NOT NULL,
  candidate_id TEXT,
  blank        INTEGER NOT NULL DEFAULT 0,
  voter_id     TEXT NOT NULL,
  cast_at      TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestAppend_AssignsIncreasingSeq(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c1 := "c1"
	s1, err := r.Append(ctx, &models.PendingVote{VoteID: "u1", ElectionID: "e1", CandidateID: &c1, VoterID: "v1", CastAt: time.Now()})
	require.NoError(t, err)
	s2, err := r.Append(ctx, &models.PendingVote{VoteID: "u2", ElectionID: "e1", Blank: true, VoterID: "v2", CastAt: time.Now()})
	require.NoError(t, err)

	assert.Greater(t, s2, s1)
}

func TestGetAll_FIFOOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		_, err := r.Append(ctx, &models.PendingVote{VoteID: id, ElectionID: "e1", Blank: true, VoterID: "v-" + id, CastAt: time.Now()})
		require.NoError(t, err)
	}

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{got[0].VoteID, got[1].VoteID, got[2].VoteID})
}

func TestRemove_DeletesOnlyThatRecord(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	s1, err := r.Append(ctx, &models.PendingVote{VoteID: "u1", ElectionID: "e1", Blank: true, VoterID: "v1", CastAt: time.Now()})
	require.NoError(t, err)
	_, err = r.Append(ctx, &models.PendingVote{VoteID: "u2", ElectionID: "e1", Blank: true, VoterID: "v2", CastAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, s1))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].VoteID)

	// removing an already removed record is a no-op
	require.NoError(t, r.Remove(ctx, s1))
}

func TestRoundTrip_BlankAndCandidateVotes(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	cast := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	c1 := "c1"

	_, err := r.Append(ctx, &models.PendingVote{VoteID: "u1", ElectionID: "e1", CandidateID: &c1, VoterID: "v1", CastAt: cast})
	require.NoError(t, err)
	_, err = r.Append(ctx, &models.PendingVote{VoteID: "u2", ElectionID: "e1", Blank: true, VoterID: "v2", CastAt: cast})
	require.NoError(t, err)

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].CandidateID)
	assert.Equal(t, "c1", *got[0].CandidateID)
	assert.False(t, got[0].Blank)
	assert.True(t, got[0].CastAt.Equal(cast))

	assert.Nil(t, got[1].CandidateID)
	assert.True(t, got[1].Blank)

	vote := got[1].Vote()
	assert.Equal(t, "u2", vote.ID)
	assert.True(t, vote.Blank)
	assert.Nil(t, vote.CandidateID)
}
