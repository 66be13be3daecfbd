package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/models"
	"github.com/votofacil/votofacil/internal/repositories"
)

// Ballot is a vote as entered at the voting station, before it is stripped
// down to the anonymous record that reaches the backend.
type Ballot struct {
	ElectionID  string
	VoterID     string
	CandidateID *string
	Blank       bool
}

// BallotService is the voting path: eligibility checks, casting (online or
// queued), and draining the offline queue once connectivity returns.
type BallotService interface {
	// CheckEligibility resolves an access code to a voter and verifies they
	// have not voted yet. The offline flag reports which source answered.
	CheckEligibility(ctx context.Context, accessCode, electionID string) (voter *models.Voter, offline bool, err error)

	// CastVote records the ballot. queued reports whether it went to the
	// offline queue instead of straight to the backend.
	CastVote(ctx context.Context, ballot Ballot) (queued bool, err error)

	// Drain replays queued ballots oldest first and returns how many were
	// confirmed remote. Replaying an already-delivered ballot is harmless.
	Drain(ctx context.Context) (drained int, err error)

	// PendingCount reports how many ballots are waiting in the queue.
	PendingCount(ctx context.Context) (int, error)
}

type ballotService struct {
	client   backend.Client
	repos    *repositories.Repositories
	monitor  *Monitor
	logger   logging.Logger
	draining atomic.Bool
}

func NewBallotService(client backend.Client, repos *repositories.Repositories, monitor *Monitor, logger logging.Logger) BallotService {
	return &ballotService{client: client, repos: repos, monitor: monitor, logger: logger}
}

func (s *ballotService) CheckEligibility(ctx context.Context, accessCode, electionID string) (*models.Voter, bool, error) {
	if s.monitor.Online() {
		voter, err := s.client.FindVoter(ctx, accessCode, electionID)
		switch {
		case err == nil:
			if voter.Voted {
				return nil, false, common.ErrAlreadyVoted
			}
			return voter, false, nil
		case errors.Is(err, common.ErrNotFound):
			return nil, false, common.ErrNotFound
		default:
			s.monitor.MarkOffline(ctx)
		}
	}

	voter, err := s.repos.Voters.FindByCode(ctx, accessCode, electionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, true, common.ErrNotFound
		}
		return nil, true, fmt.Errorf("error checking eligibility: %w", err)
	}
	if voter.Voted {
		return nil, true, common.ErrAlreadyVoted
	}
	return voter, true, nil
}

func (s *ballotService) CastVote(ctx context.Context, ballot Ballot) (bool, error) {
	// A ballot names a candidate or is blank, never both, never neither.
	if ballot.Blank == (ballot.CandidateID != nil) {
		return false, common.ErrInvalidBallot
	}
	if ballot.VoterID == "" || ballot.ElectionID == "" {
		return false, common.ErrInvalidBallot
	}

	vote := models.Vote{
		ID:          uuid.NewString(),
		ElectionID:  ballot.ElectionID,
		CandidateID: ballot.CandidateID,
		Blank:       ballot.Blank,
		CastAt:      time.Now().UTC(),
	}

	if s.monitor.Online() {
		err := s.castOnline(ctx, vote, ballot.VoterID)
		if err == nil || !errors.Is(err, common.ErrRemoteUnavailable) {
			return false, err
		}
		s.monitor.MarkOffline(ctx)
	}

	if err := s.castOffline(ctx, vote, ballot.VoterID); err != nil {
		return false, err
	}
	return true, nil
}

// castOnline writes the ballot in two phases: create the anonymous vote
// document, then flip the voter's has-voted flag. Phase two is retried, and
// if it still fails the local mirror is marked anyway so this station stops
// accepting the same code, and the caller gets ErrPartialWrite.
func (s *ballotService) castOnline(ctx context.Context, vote models.Vote, voterID string) error {
	err := s.client.CreateVote(ctx, vote)
	if err != nil && !errors.Is(err, common.ErrAlreadyExists) {
		return fmt.Errorf("error recording vote: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.client.MarkVoterVoted(ctx, voterID); err != nil {
			if errors.Is(err, common.ErrRemoteUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "vote recorded but voter flag not set", "voter_id", voterID, "error", err)
		if merr := s.repos.Voters.MarkVoted(ctx, voterID); merr != nil {
			s.logger.Warn(ctx, "error marking voter locally", "voter_id", voterID, "error", merr)
		}
		return fmt.Errorf("%w: %v", common.ErrPartialWrite, err)
	}

	if merr := s.repos.Voters.MarkVoted(ctx, voterID); merr != nil && !errors.Is(merr, common.ErrNotFound) {
		s.logger.Warn(ctx, "error marking voter locally", "voter_id", voterID, "error", merr)
	}
	return nil
}

// castOffline appends the ballot to the durable queue and marks the voter in
// the local mirror so a second attempt at this station is refused. The voter
// id travels only in the local record and is dropped before the remote write.
func (s *ballotService) castOffline(ctx context.Context, vote models.Vote, voterID string) error {
	rec := &models.PendingVote{
		VoteID:      vote.ID,
		ElectionID:  vote.ElectionID,
		CandidateID: vote.CandidateID,
		Blank:       vote.Blank,
		VoterID:     voterID,
		CastAt:      vote.CastAt,
	}

	if _, err := s.repos.Pending.Append(ctx, rec); err != nil {
		return fmt.Errorf("error queueing vote: %w", err)
	}

	if err := s.repos.Voters.MarkVoted(ctx, voterID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error marking voter: %w", err)
	}
	return nil
}

func (s *ballotService) PendingCount(ctx context.Context) (int, error) {
	items, err := s.repos.Pending.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading queue: %w", err)
	}
	return len(items), nil
}

// Drain replays the queue oldest first. Each record is delivered in the same
// two phases as an online cast, and removed only after both phases are
// settled. A duplicate vote id on replay means a previous drain attempt got
// the vote through before crashing, so it counts as delivered.
func (s *ballotService) Drain(ctx context.Context) (int, error) {
	if !s.draining.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.draining.Store(false)

	items, err := s.repos.Pending.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading queue: %w", err)
	}

	drained := 0
	for _, rec := range items {
		err := s.drainOne(ctx, rec)
		if err != nil {
			if errors.Is(err, common.ErrRemoteUnavailable) {
				s.monitor.MarkOffline(ctx)
				return drained, fmt.Errorf("drain interrupted: %w", err)
			}
			s.logger.Error(ctx, "error draining vote", "vote_id", rec.VoteID, "error", err)
			continue
		}
		drained++
	}

	if drained > 0 {
		s.logger.Info(ctx, "offline queue drained", "delivered", drained)
	}
	return drained, nil
}

func (s *ballotService) drainOne(ctx context.Context, rec models.PendingVote) error {
	err := s.client.CreateVote(ctx, rec.Vote())
	if err != nil && !errors.Is(err, common.ErrAlreadyExists) {
		return err
	}

	err = s.client.MarkVoterVoted(ctx, rec.VoterID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Warn(ctx, "queued vote for unknown voter, delivering anyway", "voter_id", rec.VoterID)
	}

	if err := s.repos.Pending.Remove(ctx, rec.Seq); err != nil {
		return err
	}
	return nil
}
