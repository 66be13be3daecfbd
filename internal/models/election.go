// Package models defines the entities shared by the backend SDK, the local
// cache repositories and the application services.
package models

import "time"

// Election is configured by an administrator and never mutated by voters.
// Finalization flips Active to false and stamps FinalizedAt.
type Election struct {
	ID          string     `firestore:"-"`
	Name        string     `firestore:"name"`
	Date        string     `firestore:"date"` // calendar date as entered, YYYY-MM-DD
	Type        string     `firestore:"type"`
	Active      bool       `firestore:"active"`
	CreatedBy   string     `firestore:"createdBy,omitempty"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	FinalizedAt *time.Time `firestore:"finalizedAt,omitempty"`
}
