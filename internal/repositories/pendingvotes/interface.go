package pendingvotes

import (
	"context"

	"github.com/votofacil/votofacil/internal/models"
)

// Repository is the append-only pending-votes partition of the local cache
// store. Records are replayed to the backend in sequence order and removed
// only after the remote write is acknowledged.
type Repository interface {
	// Append queues a vote captured offline and returns its locally assigned
	// sequence key.
	Append(ctx context.Context, rec *models.PendingVote) (int64, error)

	// GetAll returns every queued record in first-in-first-out order.
	GetAll(ctx context.Context) ([]models.PendingVote, error)

	// Remove deletes one queued record by sequence key.
	Remove(ctx context.Context, seq int64) error
}
