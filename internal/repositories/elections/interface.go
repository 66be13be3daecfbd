package elections

import (
	"context"

	"github.com/votofacil/votofacil/internal/models"
)

// Repository is the elections partition of the local cache store.
// The partition only ever holds the last snapshot read from the backend.
type Repository interface {
	// ReplaceAll clears the partition and inserts the given snapshot in a
	// single transaction, so concurrent readers never observe a mix of two
	// snapshots.
	ReplaceAll(ctx context.Context, items []models.Election) error

	// GetAll returns the current contents of the partition.
	GetAll(ctx context.Context) ([]models.Election, error)
}
