package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votofacil/votofacil/internal/models"
)

func newCatalogFixture(t *testing.T) (*fakeBackend, MirrorService, *Monitor, CatalogService) {
	t.Helper()
	fb := newFakeBackend()
	repos := testRepos(t)
	mirror := NewMirrorService(fb, repos, testLogger())
	monitor := NewMonitor(fb, time.Second, nil, testLogger())
	svc := NewCatalogService(fb, mirror, monitor, testLogger())
	return fb, mirror, monitor, svc
}

func TestActiveElections_OnlineRefreshesMirror(t *testing.T) {
	fb, _, _, svc := newCatalogFixture(t)
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Name: "Grêmio 2026", Active: true}

	items, offline, err := svc.ActiveElections(ctx)
	require.NoError(t, err)
	assert.False(t, offline)
	require.Len(t, items, 1)

	// The read mirrored the snapshot, so the same list survives an outage.
	fb.setUnavailable(true)
	items, offline, err = svc.ActiveElections(ctx)
	require.NoError(t, err)
	assert.True(t, offline)
	require.Len(t, items, 1)
	assert.Equal(t, "el1", items[0].ID)
}

func TestActiveElections_OfflineWithEmptyMirror(t *testing.T) {
	fb, _, _, svc := newCatalogFixture(t)
	fb.setUnavailable(true)

	items, offline, err := svc.ActiveElections(context.Background())
	require.NoError(t, err)
	assert.True(t, offline)
	assert.Empty(t, items)
}

func TestAllElections_IncludesClosed(t *testing.T) {
	fb, _, _, svc := newCatalogFixture(t)

	fb.elections["el1"] = models.Election{ID: "el1", Active: true}
	fb.elections["el2"] = models.Election{ID: "el2", Active: false}

	items, offline, err := svc.AllElections(context.Background())
	require.NoError(t, err)
	assert.False(t, offline)
	assert.Len(t, items, 2)
}

func TestVoters_OfflineFallbackFiltersByElection(t *testing.T) {
	fb, mirror, monitor, svc := newCatalogFixture(t)
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Active: true}
	fb.elections["el2"] = models.Election{ID: "el2", Active: true}
	fb.voters["v1"] = models.Voter{ID: "v1", ElectionID: "el1", AccessCode: "1111"}
	fb.voters["v2"] = models.Voter{ID: "v2", ElectionID: "el2", AccessCode: "2222"}
	require.NoError(t, mirror.RefreshAll(ctx))

	fb.setUnavailable(true)
	monitor.Probe(ctx)

	items, offline, err := svc.Voters(ctx, "el1")
	require.NoError(t, err)
	assert.True(t, offline)
	require.Len(t, items, 1)
	assert.Equal(t, "v1", items[0].ID)
}

func TestCandidates_OnlineAndOffline(t *testing.T) {
	fb, mirror, monitor, svc := newCatalogFixture(t)
	ctx := context.Background()

	fb.elections["el1"] = models.Election{ID: "el1", Active: true}
	fb.candidates["c1"] = models.Candidate{ID: "c1", ElectionID: "el1", Number: 10, Name: "Ana"}

	items, offline, err := svc.Candidates(ctx, "el1")
	require.NoError(t, err)
	assert.False(t, offline)
	assert.Len(t, items, 1)

	// Mirror the catalog, then lose the backend mid-session.
	require.NoError(t, mirror.RefreshAll(ctx))
	fb.setUnavailable(true)
	monitor.Probe(ctx)

	items, offline, err = svc.Candidates(ctx, "el1")
	require.NoError(t, err)
	assert.True(t, offline)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].ID)
}
