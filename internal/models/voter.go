package models

import "time"

// Voter may cast exactly one vote in its election. AccessCode is unique
// within the election. Voted starts false and only ever transitions to true.
type Voter struct {
	ID         string    `firestore:"-"`
	ElectionID string    `firestore:"electionId"`
	AccessCode string    `firestore:"accessCode"`
	Name       string    `firestore:"name"`
	Voted      bool      `firestore:"voted"`
	CreatedAt  time.Time `firestore:"createdAt"`
}
