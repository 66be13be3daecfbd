package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votofacil/votofacil/internal/models"
)

func addVote(fb *fakeBackend, id, electionID string, candidateID *string, blank bool) {
	fb.votes[id] = models.Vote{
		ID: id, ElectionID: electionID, CandidateID: candidateID,
		Blank: blank, CastAt: time.Now().UTC(),
	}
}

func TestTally(t *testing.T) {
	fb := newFakeBackend()
	svc := NewResultsService(fb)
	ctx := context.Background()

	fb.candidates["c1"] = models.Candidate{ID: "c1", ElectionID: "el1", Number: 20, Name: "Ana"}
	fb.candidates["c2"] = models.Candidate{ID: "c2", ElectionID: "el1", Number: 10, Name: "Bruno"}
	fb.candidates["c3"] = models.Candidate{ID: "c3", ElectionID: "el1", Number: 30, Name: "Clara"}

	fb.voters["v1"] = models.Voter{ID: "v1", ElectionID: "el1", Voted: true}
	fb.voters["v2"] = models.Voter{ID: "v2", ElectionID: "el1", Voted: true}
	fb.voters["v3"] = models.Voter{ID: "v3", ElectionID: "el1", Voted: true}
	fb.voters["v4"] = models.Voter{ID: "v4", ElectionID: "el1"}

	c1, c2 := "c1", "c2"
	addVote(fb, "t1", "el1", &c1, false)
	addVote(fb, "t2", "el1", &c2, false)
	addVote(fb, "t3", "el1", nil, true)

	tally, err := svc.Tally(ctx, "el1")
	require.NoError(t, err)

	assert.Equal(t, 3, tally.TotalVotes)
	assert.Equal(t, 1, tally.BlankVotes)
	assert.Equal(t, 4, tally.TotalVoters)
	assert.Equal(t, 3, tally.VotersVoted)
	assert.InDelta(t, 0.75, tally.Turnout, 1e-9)

	// One vote each for c1 and c2: the tie breaks on ballot number, and the
	// candidate without votes still shows up last.
	require.Len(t, tally.Ranking, 3)
	assert.Equal(t, "c2", tally.Ranking[0].Candidate.ID)
	assert.Equal(t, "c1", tally.Ranking[1].Candidate.ID)
	assert.Equal(t, "c3", tally.Ranking[2].Candidate.ID)
	assert.Equal(t, 0, tally.Ranking[2].Votes)
	assert.InDelta(t, 100.0/3, tally.Ranking[0].Percent, 1e-9)
}

func TestTally_NoVotes(t *testing.T) {
	fb := newFakeBackend()
	svc := NewResultsService(fb)

	fb.candidates["c1"] = models.Candidate{ID: "c1", ElectionID: "el1", Number: 10}

	tally, err := svc.Tally(context.Background(), "el1")
	require.NoError(t, err)
	assert.Equal(t, 0, tally.TotalVotes)
	assert.Equal(t, 0.0, tally.Turnout)
	require.Len(t, tally.Ranking, 1)
	assert.Equal(t, 0.0, tally.Ranking[0].Percent)
}

func TestFinalize(t *testing.T) {
	fb := newFakeBackend()
	svc := NewResultsService(fb)

	fb.elections["el1"] = models.Election{ID: "el1", Active: true}

	require.NoError(t, svc.Finalize(context.Background(), "el1"))
	assert.False(t, fb.elections["el1"].Active)
	assert.NotNil(t, fb.elections["el1"].FinalizedAt)
}
