package voters

import (
	"context"

	"github.com/votofacil/votofacil/internal/models"
)

// Repository is the voters partition of the local cache store. It backs the
// offline side of the eligibility gate, so in addition to the snapshot
// operations it supports the lookup the gate performs and the local
// has-voted flip done when a vote is queued offline.
type Repository interface {
	// ReplaceAll clears the partition and inserts the given snapshot in a
	// single transaction.
	ReplaceAll(ctx context.Context, items []models.Voter) error

	// GetAll returns the current contents of the partition.
	GetAll(ctx context.Context) ([]models.Voter, error)

	// FindByCode returns the voter with the given access code in the given
	// election, or common.ErrNotFound.
	FindByCode(ctx context.Context, accessCode, electionID string) (*models.Voter, error)

	// MarkVoted flips the cached has-voted flag. The flag never goes back.
	MarkVoted(ctx context.Context, voterID string) error
}
