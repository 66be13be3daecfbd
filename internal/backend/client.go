// Package backend wraps the managed remote backend (document database, auth
// service, blob storage) behind small interfaces. Nothing in here owns
// business rules; it is the SDK boundary the services talk through.
package backend

import (
	"context"
	"time"

	"github.com/votofacil/votofacil/internal/models"
)

// Client is the document-database boundary. Implementations map transport
// failures to the sentinels in internal/common (ErrNotFound, ErrAlreadyExists,
// ErrRemoteUnavailable, ErrUnauthorized) so callers can branch with errors.Is.
type Client interface {
	Close() error

	// Ping performs a lightweight read so the connectivity monitor can tell
	// whether the backend is reachable.
	Ping(ctx context.Context) error

	// Elections.
	Elections(ctx context.Context) ([]models.Election, error)
	ActiveElections(ctx context.Context) ([]models.Election, error)
	CreateElection(ctx context.Context, e *models.Election) error
	UpdateElection(ctx context.Context, e *models.Election) error
	// DeleteElection removes the election and, in the same batch, every
	// candidate and voter registered to it.
	DeleteElection(ctx context.Context, electionID string) error
	FinalizeElection(ctx context.Context, electionID string, at time.Time) error

	// Candidates.
	CandidatesByElection(ctx context.Context, electionID string) ([]models.Candidate, error)
	Candidate(ctx context.Context, candidateID string) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	DeleteCandidate(ctx context.Context, candidateID string) error

	// Voters.
	VotersByElection(ctx context.Context, electionID string) ([]models.Voter, error)
	FindVoter(ctx context.Context, accessCode, electionID string) (*models.Voter, error)
	CreateVoter(ctx context.Context, v *models.Voter) error
	UpdateVoter(ctx context.Context, v *models.Voter) error
	DeleteVoter(ctx context.Context, voterID string) error
	// ImportVoters writes all given voters in one atomic batch.
	ImportVoters(ctx context.Context, items []models.Voter) error
	// MarkVoterVoted flips the remote has-voted flag. It is never cleared.
	MarkVoterVoted(ctx context.Context, voterID string) error

	// Votes.
	// CreateVote is create-only keyed by vote.ID; writing the same id twice
	// returns common.ErrAlreadyExists, which makes queue replay idempotent.
	CreateVote(ctx context.Context, vote models.Vote) error
	VotesByElection(ctx context.Context, electionID string) ([]models.Vote, error)
}

// PhotoStore is the blob-storage boundary for candidate photos.
type PhotoStore interface {
	// Upload stores the blob under objectPath and returns a retrievable URL.
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)

	// Delete removes a previously uploaded blob by its URL. Deleting a blob
	// that is already gone is not an error.
	Delete(ctx context.Context, url string) error
}
