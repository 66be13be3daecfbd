package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/models"
)

// ResultsService tallies cast votes and closes elections. Both operations
// read the backend directly; results are never computed from the mirror.
type ResultsService interface {
	Tally(ctx context.Context, electionID string) (*models.Tally, error)
	Finalize(ctx context.Context, electionID string) error
}

type resultsService struct {
	client backend.Client
}

func NewResultsService(client backend.Client) ResultsService {
	return &resultsService{client: client}
}

// Tally counts votes per candidate and ranks them by votes descending, ties
// broken by ballot number ascending. Candidates without votes still appear.
func (s *resultsService) Tally(ctx context.Context, electionID string) (*models.Tally, error) {
	candidates, err := s.client.CandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing candidates: %w", err)
	}

	votes, err := s.client.VotesByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing votes: %w", err)
	}

	voters, err := s.client.VotersByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing voters: %w", err)
	}

	counts := make(map[string]int, len(candidates))
	blank := 0
	for _, v := range votes {
		if v.Blank || v.CandidateID == nil {
			blank++
			continue
		}
		counts[*v.CandidateID]++
	}

	ranking := make([]models.CandidateTally, 0, len(candidates))
	for _, c := range candidates {
		row := models.CandidateTally{Candidate: c, Votes: counts[c.ID]}
		if len(votes) > 0 {
			row.Percent = float64(row.Votes) / float64(len(votes)) * 100
		}
		ranking = append(ranking, row)
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Votes != ranking[j].Votes {
			return ranking[i].Votes > ranking[j].Votes
		}
		return ranking[i].Candidate.Number < ranking[j].Candidate.Number
	})

	voted := 0
	for _, v := range voters {
		if v.Voted {
			voted++
		}
	}

	tally := &models.Tally{
		ElectionID:  electionID,
		TotalVotes:  len(votes),
		BlankVotes:  blank,
		TotalVoters: len(voters),
		VotersVoted: voted,
		Ranking:     ranking,
	}
	if len(voters) > 0 {
		tally.Turnout = float64(voted) / float64(len(voters))
	}
	return tally, nil
}

func (s *resultsService) Finalize(ctx context.Context, electionID string) error {
	if err := s.client.FinalizeElection(ctx, electionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("error finalizing election: %w", err)
	}
	return nil
}
