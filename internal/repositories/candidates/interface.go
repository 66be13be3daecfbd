package candidates

import (
	"context"

	"github.com/votofacil/votofacil/internal/models"
)

// Repository is the candidates partition of the local cache store.
type Repository interface {
	// ReplaceAll clears the partition and inserts the given snapshot in a
	// single transaction.
	ReplaceAll(ctx context.Context, items []models.Candidate) error

	// GetAll returns the current contents of the partition.
	GetAll(ctx context.Context) ([]models.Candidate, error)

	// ByElection returns the cached candidates of one election ordered by
	// ballot number.
	ByElection(ctx context.Context, electionID string) ([]models.Candidate, error)
}
