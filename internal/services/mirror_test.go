package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votofacil/votofacil/internal/models"
)

func TestRefreshAll_MirrorsActiveElections(t *testing.T) {
	fb := newFakeBackend()
	repos := testRepos(t)
	svc := NewMirrorService(fb, repos, testLogger())
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Name: "Grêmio 2026", Active: true}
	fb.elections["el2"] = models.Election{ID: "el2", Name: "Old", Active: false}
	fb.candidates["c1"] = models.Candidate{ID: "c1", ElectionID: "el1", Number: 10, Name: "Ana"}
	fb.candidates["c2"] = models.Candidate{ID: "c2", ElectionID: "el1", Number: 20, Name: "Bruno"}
	fb.voters["v1"] = models.Voter{ID: "v1", ElectionID: "el1", AccessCode: "1111"}

	require.NoError(t, svc.RefreshAll(ctx))

	elections, err := svc.SnapshotElections(ctx)
	require.NoError(t, err)
	require.Len(t, elections, 1)
	assert.Equal(t, "el1", elections[0].ID)

	candidates, err := svc.SnapshotCandidates(ctx, "el1")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	// Ordered by ballot number.
	assert.Equal(t, 10, candidates[0].Number)

	voters, err := svc.SnapshotVoters(ctx)
	require.NoError(t, err)
	assert.Len(t, voters, 1)
}

func TestRefreshAll_ReplacesWholesale(t *testing.T) {
	fb := newFakeBackend()
	repos := testRepos(t)
	svc := NewMirrorService(fb, repos, testLogger())
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Name: "First", Active: true}
	fb.candidates["c1"] = models.Candidate{ID: "c1", ElectionID: "el1", Number: 10, Name: "Ana"}
	require.NoError(t, svc.RefreshAll(ctx))

	// The election closes remotely; nothing of it may survive the next
	// refresh.
	delete(fb.elections, "el1")
	delete(fb.candidates, "c1")
	fb.elections["el2"] = models.Election{ID: "el2", Name: "Second", Active: true}
	require.NoError(t, svc.RefreshAll(ctx))

	elections, err := svc.SnapshotElections(ctx)
	require.NoError(t, err)
	require.Len(t, elections, 1)
	assert.Equal(t, "el2", elections[0].ID)

	candidates, err := svc.SnapshotCandidates(ctx, "el1")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRefreshAll_BackendDown(t *testing.T) {
	fb := newFakeBackend()
	repos := testRepos(t)
	svc := NewMirrorService(fb, repos, testLogger())
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Active: true}
	require.NoError(t, svc.RefreshAll(ctx))

	// A failed refresh must leave the previous snapshot intact.
	fb.setUnavailable(true)
	require.Error(t, svc.RefreshAll(ctx))

	elections, err := svc.SnapshotElections(ctx)
	require.NoError(t, err)
	assert.Len(t, elections, 1)
}
