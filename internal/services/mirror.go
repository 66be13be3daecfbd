// Package services holds the application logic shared by the three command
// line tools: the snapshot mirror, the connectivity monitor, the catalog
// reader, ballot casting with the offline queue, administration, and results.
package services

import (
	"context"
	"fmt"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/models"
	"github.com/votofacil/votofacil/internal/repositories"
)

// MirrorService keeps wholesale local copies of the remote catalog so reads
// keep working while the backend is unreachable. Every refresh replaces a
// whole partition; there is no per-record merging.
type MirrorService interface {
	RefreshElections(ctx context.Context, items []models.Election) error
	RefreshCandidates(ctx context.Context, items []models.Candidate) error
	RefreshVoters(ctx context.Context, items []models.Voter) error

	// RefreshAll pulls the active elections with their candidates and voters
	// from the backend and mirrors all three partitions.
	RefreshAll(ctx context.Context) error

	SnapshotElections(ctx context.Context) ([]models.Election, error)
	SnapshotCandidates(ctx context.Context, electionID string) ([]models.Candidate, error)
	SnapshotVoters(ctx context.Context) ([]models.Voter, error)
}

type mirrorService struct {
	client backend.Client
	repos  *repositories.Repositories
	logger logging.Logger
}

func NewMirrorService(client backend.Client, repos *repositories.Repositories, logger logging.Logger) MirrorService {
	return &mirrorService{client: client, repos: repos, logger: logger}
}

func (s *mirrorService) RefreshElections(ctx context.Context, items []models.Election) error {
	if err := s.repos.Elections.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("error mirroring elections: %w", err)
	}
	return nil
}

func (s *mirrorService) RefreshCandidates(ctx context.Context, items []models.Candidate) error {
	if err := s.repos.Candidates.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("error mirroring candidates: %w", err)
	}
	return nil
}

func (s *mirrorService) RefreshVoters(ctx context.Context, items []models.Voter) error {
	if err := s.repos.Voters.ReplaceAll(ctx, items); err != nil {
		return fmt.Errorf("error mirroring voters: %w", err)
	}
	return nil
}

func (s *mirrorService) RefreshAll(ctx context.Context) error {
	elections, err := s.client.ActiveElections(ctx)
	if err != nil {
		return fmt.Errorf("error fetching elections: %w", err)
	}

	var allCandidates []models.Candidate
	var allVoters []models.Voter
	for _, e := range elections {
		candidates, err := s.client.CandidatesByElection(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("error fetching candidates: %w", err)
		}
		allCandidates = append(allCandidates, candidates...)

		voters, err := s.client.VotersByElection(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("error fetching voters: %w", err)
		}
		allVoters = append(allVoters, voters...)
	}

	if err := s.RefreshElections(ctx, elections); err != nil {
		return err
	}
	if err := s.RefreshCandidates(ctx, allCandidates); err != nil {
		return err
	}
	if err := s.RefreshVoters(ctx, allVoters); err != nil {
		return err
	}

	s.logger.Info(ctx, "mirror refreshed",
		"elections", len(elections), "candidates", len(allCandidates), "voters", len(allVoters))
	return nil
}

func (s *mirrorService) SnapshotElections(ctx context.Context) ([]models.Election, error) {
	items, err := s.repos.Elections.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading election snapshot: %w", err)
	}
	return items, nil
}

func (s *mirrorService) SnapshotCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	items, err := s.repos.Candidates.ByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error reading candidate snapshot: %w", err)
	}
	return items, nil
}

func (s *mirrorService) SnapshotVoters(ctx context.Context) ([]models.Voter, error) {
	items, err := s.repos.Voters.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading voter snapshot: %w", err)
	}
	return items, nil
}
