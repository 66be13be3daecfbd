package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/models"
	"github.com/votofacil/votofacil/internal/repositories"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	db, repos, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos
}

// fakeBackend is an in-memory stand-in for the document database. Setting
// unavailable makes every call fail like a network outage; markVotedFailures
// makes that many MarkVoterVoted calls fail before recovering.
type fakeBackend struct {
	mu sync.Mutex

	elections  map[string]models.Election
	candidates map[string]models.Candidate
	voters     map[string]models.Voter
	votes      map[string]models.Vote

	unavailable       bool
	markVotedFailures int
	nextID            int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		elections:  map[string]models.Election{},
		candidates: map[string]models.Candidate{},
		voters:     map[string]models.Voter{},
		votes:      map[string]models.Vote{},
	}
}

func (f *fakeBackend) setUnavailable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = v
}

func (f *fakeBackend) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeBackend) check() error {
	if f.unavailable {
		return common.ErrRemoteUnavailable
	}
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.check()
}

func (f *fakeBackend) Elections(ctx context.Context) ([]models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []models.Election
	for _, e := range f.elections {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeBackend) ActiveElections(ctx context.Context) ([]models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []models.Election
	for _, e := range f.elections {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateElection(ctx context.Context, e *models.Election) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	e.ID = f.genID()
	f.elections[e.ID] = *e
	return nil
}

func (f *fakeBackend) UpdateElection(ctx context.Context, e *models.Election) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.elections[e.ID] = *e
	return nil
}

func (f *fakeBackend) DeleteElection(ctx context.Context, electionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	delete(f.elections, electionID)
	for id, c := range f.candidates {
		if c.ElectionID == electionID {
			delete(f.candidates, id)
		}
	}
	for id, v := range f.voters {
		if v.ElectionID == electionID {
			delete(f.voters, id)
		}
	}
	return nil
}

func (f *fakeBackend) FinalizeElection(ctx context.Context, electionID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	e, ok := f.elections[electionID]
	if !ok {
		return common.ErrNotFound
	}
	e.Active = false
	e.FinalizedAt = &at
	f.elections[electionID] = e
	return nil
}

func (f *fakeBackend) CandidatesByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []models.Candidate
	for _, c := range f.candidates {
		if c.ElectionID == electionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeBackend) Candidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	c, ok := f.candidates[candidateID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (f *fakeBackend) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	c.ID = f.genID()
	f.candidates[c.ID] = *c
	return nil
}

func (f *fakeBackend) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.candidates[c.ID] = *c
	return nil
}

func (f *fakeBackend) DeleteCandidate(ctx context.Context, candidateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	delete(f.candidates, candidateID)
	return nil
}

func (f *fakeBackend) VotersByElection(ctx context.Context, electionID string) ([]models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []models.Voter
	for _, v := range f.voters {
		if v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeBackend) FindVoter(ctx context.Context, accessCode, electionID string) (*models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	for _, v := range f.voters {
		if v.AccessCode == accessCode && v.ElectionID == electionID {
			out := v
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeBackend) CreateVoter(ctx context.Context, v *models.Voter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	v.ID = f.genID()
	f.voters[v.ID] = *v
	return nil
}

func (f *fakeBackend) UpdateVoter(ctx context.Context, v *models.Voter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	f.voters[v.ID] = *v
	return nil
}

func (f *fakeBackend) DeleteVoter(ctx context.Context, voterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	delete(f.voters, voterID)
	return nil
}

func (f *fakeBackend) ImportVoters(ctx context.Context, items []models.Voter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	for i := range items {
		items[i].ID = f.genID()
		f.voters[items[i].ID] = items[i]
	}
	return nil
}

func (f *fakeBackend) MarkVoterVoted(ctx context.Context, voterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	if f.markVotedFailures > 0 {
		f.markVotedFailures--
		return common.ErrRemoteUnavailable
	}
	v, ok := f.voters[voterID]
	if !ok {
		return common.ErrNotFound
	}
	v.Voted = true
	f.voters[voterID] = v
	return nil
}

func (f *fakeBackend) CreateVote(ctx context.Context, vote models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return err
	}
	if _, ok := f.votes[vote.ID]; ok {
		return common.ErrAlreadyExists
	}
	f.votes[vote.ID] = vote
	return nil
}

func (f *fakeBackend) VotesByElection(ctx context.Context, electionID string) ([]models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []models.Vote
	for _, v := range f.votes {
		if v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakePhotoStore records uploads and deletions.
type fakePhotoStore struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{uploaded: map[string][]byte{}}
}

func (f *fakePhotoStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	f.uploaded[objectPath] = data
	return "https://photos.test/" + objectPath, nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}
