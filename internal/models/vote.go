package models

import "time"

// Vote is the anonymous ballot persisted remotely. It never carries a voter
// identifier: either CandidateID is set or Blank is true, never both.
// ID is assigned client-side (UUID) and doubles as the remote document id,
// which makes queue replay idempotent.
type Vote struct {
	ID          string    `firestore:"-"`
	ElectionID  string    `firestore:"electionId"`
	CandidateID *string   `firestore:"candidateId"`
	Blank       bool      `firestore:"blank"`
	CastAt      time.Time `firestore:"castAt"`
}

// PendingVote is a vote captured while offline, queued in the local store.
// Seq is the locally assigned replay key. VoterID exists only in this local
// record so the drain can flip the remote has-voted flag; it is discarded
// before the remote vote document is written.
type PendingVote struct {
	Seq         int64
	VoteID      string
	ElectionID  string
	CandidateID *string
	Blank       bool
	VoterID     string
	CastAt      time.Time
}

// Vote returns the anonymous vote document for this pending record.
func (p *PendingVote) Vote() Vote {
	return Vote{
		ID:          p.VoteID,
		ElectionID:  p.ElectionID,
		CandidateID: p.CandidateID,
		Blank:       p.Blank,
		CastAt:      p.CastAt,
	}
}
