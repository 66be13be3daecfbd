package services

import (
	"context"
	"fmt"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/models"
)

// CatalogService serves election and candidate reads. When the backend
// answers, it refreshes the local mirror as a side effect; when it does not,
// it falls back to the last snapshot. The offline flag in the results tells
// callers which source answered.
type CatalogService interface {
	ActiveElections(ctx context.Context) (items []models.Election, offline bool, err error)
	AllElections(ctx context.Context) (items []models.Election, offline bool, err error)
	Candidates(ctx context.Context, electionID string) (items []models.Candidate, offline bool, err error)
	Voters(ctx context.Context, electionID string) (items []models.Voter, offline bool, err error)
}

type catalogService struct {
	client  backend.Client
	mirror  MirrorService
	monitor *Monitor
	logger  logging.Logger
}

func NewCatalogService(client backend.Client, mirror MirrorService, monitor *Monitor, logger logging.Logger) CatalogService {
	return &catalogService{client: client, mirror: mirror, monitor: monitor, logger: logger}
}

func (s *catalogService) ActiveElections(ctx context.Context) ([]models.Election, bool, error) {
	if s.monitor.Online() {
		items, err := s.client.ActiveElections(ctx)
		if err == nil {
			if merr := s.mirror.RefreshElections(ctx, items); merr != nil {
				s.logger.Warn(ctx, "error refreshing election mirror", "error", merr)
			}
			return items, false, nil
		}
		s.monitor.MarkOffline(ctx)
	}

	items, err := s.mirror.SnapshotElections(ctx)
	if err != nil {
		return nil, true, fmt.Errorf("error listing elections: %w", err)
	}

	active := make([]models.Election, 0, len(items))
	for _, e := range items {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, true, nil
}

// AllElections includes closed elections. The mirror holds active elections
// only, so the offline fallback cannot show history.
func (s *catalogService) AllElections(ctx context.Context) ([]models.Election, bool, error) {
	if s.monitor.Online() {
		items, err := s.client.Elections(ctx)
		if err == nil {
			return items, false, nil
		}
		s.monitor.MarkOffline(ctx)
	}

	items, err := s.mirror.SnapshotElections(ctx)
	if err != nil {
		return nil, true, fmt.Errorf("error listing elections: %w", err)
	}
	return items, true, nil
}

// Candidates serves the ballot screen. Online reads are not mirrored here:
// the candidate partition is replaced wholesale by RefreshAll, and replacing
// it with a single election's slice would drop the other elections.
func (s *catalogService) Candidates(ctx context.Context, electionID string) ([]models.Candidate, bool, error) {
	if s.monitor.Online() {
		items, err := s.client.CandidatesByElection(ctx, electionID)
		if err == nil {
			return items, false, nil
		}
		s.monitor.MarkOffline(ctx)
	}

	items, err := s.mirror.SnapshotCandidates(ctx, electionID)
	if err != nil {
		return nil, true, fmt.Errorf("error listing candidates: %w", err)
	}
	return items, true, nil
}

// Voters lists an election's roster, falling back to the mirrored snapshot.
func (s *catalogService) Voters(ctx context.Context, electionID string) ([]models.Voter, bool, error) {
	if s.monitor.Online() {
		items, err := s.client.VotersByElection(ctx, electionID)
		if err == nil {
			return items, false, nil
		}
		s.monitor.MarkOffline(ctx)
	}

	all, err := s.mirror.SnapshotVoters(ctx)
	if err != nil {
		return nil, true, fmt.Errorf("error listing voters: %w", err)
	}

	items := make([]models.Voter, 0, len(all))
	for _, v := range all {
		if v.ElectionID == electionID {
			items = append(items, v)
		}
	}
	return items, true, nil
}
