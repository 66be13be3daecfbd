package models

// Candidate runs in exactly one election. Number is the ballot number the
// voter keys in; it is unique within the election.
type Candidate struct {
	ID          string `firestore:"-"`
	ElectionID  string `firestore:"electionId"`
	Number      int    `firestore:"number"`
	Name        string `firestore:"name"`
	Description string `firestore:"description,omitempty"`
	PhotoURL    string `firestore:"photoUrl,omitempty"`
}
