package models

// CandidateTally is one ranking row of an election's results.
type CandidateTally struct {
	Candidate Candidate
	Votes     int
	Percent   float64
}

// Tally aggregates the votes of a single election.
type Tally struct {
	ElectionID  string
	TotalVotes  int
	BlankVotes  int
	TotalVoters int
	VotersVoted int
	Turnout     float64 // VotersVoted / TotalVoters, 0 when there are no voters
	Ranking     []CandidateTally
}
