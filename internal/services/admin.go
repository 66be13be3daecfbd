package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/models"
)

// ImportReport summarizes a bulk voter import. Rows skipped over duplicate
// access codes are reported, not treated as a failure of the whole batch.
type ImportReport struct {
	Imported int
	Skipped  []string
}

// AdminService is the management surface: election, candidate and voter
// maintenance. It is online-only; management operations are never queued.
type AdminService interface {
	Elections(ctx context.Context) ([]models.Election, error)
	CreateElection(ctx context.Context, e *models.Election) error
	UpdateElection(ctx context.Context, e *models.Election) error
	DeleteElection(ctx context.Context, electionID string) error

	Candidates(ctx context.Context, electionID string) ([]models.Candidate, error)
	CreateCandidate(ctx context.Context, c *models.Candidate, photo []byte, photoType string) error
	UpdateCandidate(ctx context.Context, c *models.Candidate, photo []byte, photoType string) error
	DeleteCandidate(ctx context.Context, candidateID string) error

	Voters(ctx context.Context, electionID string) ([]models.Voter, error)
	RegisterVoter(ctx context.Context, v *models.Voter) error
	UpdateVoter(ctx context.Context, v *models.Voter) error
	DeleteVoter(ctx context.Context, voterID string) error
	ImportVoters(ctx context.Context, electionID string, items []models.Voter) (*ImportReport, error)
}

type adminService struct {
	client backend.Client
	photos backend.PhotoStore
	logger logging.Logger
}

func NewAdminService(client backend.Client, photos backend.PhotoStore, logger logging.Logger) AdminService {
	return &adminService{client: client, photos: photos, logger: logger}
}

func (s *adminService) Elections(ctx context.Context) ([]models.Election, error) {
	items, err := s.client.Elections(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing elections: %w", err)
	}
	return items, nil
}

func (s *adminService) CreateElection(ctx context.Context, e *models.Election) error {
	e.CreatedAt = time.Now().UTC()
	if err := s.client.CreateElection(ctx, e); err != nil {
		return fmt.Errorf("error creating election: %w", err)
	}
	return nil
}

func (s *adminService) UpdateElection(ctx context.Context, e *models.Election) error {
	if err := s.client.UpdateElection(ctx, e); err != nil {
		return fmt.Errorf("error updating election: %w", err)
	}
	return nil
}

// DeleteElection removes the election with its candidates and voters, then
// cleans up candidate photos. Photo cleanup failures are only logged; the
// blobs are orphaned, not load-bearing.
func (s *adminService) DeleteElection(ctx context.Context, electionID string) error {
	candidates, err := s.client.CandidatesByElection(ctx, electionID)
	if err != nil {
		return fmt.Errorf("error listing candidates: %w", err)
	}

	if err := s.client.DeleteElection(ctx, electionID); err != nil {
		return fmt.Errorf("error deleting election: %w", err)
	}

	for _, c := range candidates {
		if c.PhotoURL == "" {
			continue
		}
		if err := s.photos.Delete(ctx, c.PhotoURL); err != nil {
			s.logger.Warn(ctx, "error deleting candidate photo", "candidate_id", c.ID, "error", err)
		}
	}
	return nil
}

func (s *adminService) Candidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	items, err := s.client.CandidatesByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing candidates: %w", err)
	}
	return items, nil
}

// checkNumberFree guards the one-number-per-election rule. self is the
// candidate id being updated, or empty on create.
func (s *adminService) checkNumberFree(ctx context.Context, electionID string, number int, self string) error {
	items, err := s.client.CandidatesByElection(ctx, electionID)
	if err != nil {
		return fmt.Errorf("error listing candidates: %w", err)
	}
	for _, c := range items {
		if c.Number == number && c.ID != self {
			return common.ErrDuplicateNumber
		}
	}
	return nil
}

func (s *adminService) CreateCandidate(ctx context.Context, c *models.Candidate, photo []byte, photoType string) error {
	if err := s.checkNumberFree(ctx, c.ElectionID, c.Number, ""); err != nil {
		return err
	}

	if len(photo) > 0 {
		url, err := s.uploadPhoto(ctx, c.ElectionID, photo, photoType)
		if err != nil {
			return err
		}
		c.PhotoURL = url
	}

	if err := s.client.CreateCandidate(ctx, c); err != nil {
		return fmt.Errorf("error creating candidate: %w", err)
	}
	return nil
}

func (s *adminService) UpdateCandidate(ctx context.Context, c *models.Candidate, photo []byte, photoType string) error {
	if err := s.checkNumberFree(ctx, c.ElectionID, c.Number, c.ID); err != nil {
		return err
	}

	if len(photo) > 0 {
		old := c.PhotoURL
		url, err := s.uploadPhoto(ctx, c.ElectionID, photo, photoType)
		if err != nil {
			return err
		}
		c.PhotoURL = url

		if old != "" {
			if err := s.photos.Delete(ctx, old); err != nil {
				s.logger.Warn(ctx, "error deleting replaced photo", "candidate_id", c.ID, "error", err)
			}
		}
	}

	if err := s.client.UpdateCandidate(ctx, c); err != nil {
		return fmt.Errorf("error updating candidate: %w", err)
	}
	return nil
}

func (s *adminService) uploadPhoto(ctx context.Context, electionID string, photo []byte, photoType string) (string, error) {
	ext := ".jpg"
	if photoType == "image/png" {
		ext = ".png"
	}
	objectPath := path.Join("candidates", electionID, uuid.NewString()+ext)

	url, err := s.photos.Upload(ctx, objectPath, photo, photoType)
	if err != nil {
		return "", fmt.Errorf("error uploading photo: %w", err)
	}
	return url, nil
}

func (s *adminService) DeleteCandidate(ctx context.Context, candidateID string) error {
	c, err := s.client.Candidate(ctx, candidateID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error loading candidate: %w", err)
	}

	if err := s.client.DeleteCandidate(ctx, candidateID); err != nil {
		return fmt.Errorf("error deleting candidate: %w", err)
	}

	if c != nil && c.PhotoURL != "" {
		if err := s.photos.Delete(ctx, c.PhotoURL); err != nil {
			s.logger.Warn(ctx, "error deleting candidate photo", "candidate_id", candidateID, "error", err)
		}
	}
	return nil
}

func (s *adminService) Voters(ctx context.Context, electionID string) ([]models.Voter, error) {
	items, err := s.client.VotersByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing voters: %w", err)
	}
	return items, nil
}

func (s *adminService) RegisterVoter(ctx context.Context, v *models.Voter) error {
	_, err := s.client.FindVoter(ctx, v.AccessCode, v.ElectionID)
	if err == nil {
		return common.ErrAlreadyRegistered
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error checking access code: %w", err)
	}

	v.CreatedAt = time.Now().UTC()
	if err := s.client.CreateVoter(ctx, v); err != nil {
		return fmt.Errorf("error registering voter: %w", err)
	}
	return nil
}

func (s *adminService) UpdateVoter(ctx context.Context, v *models.Voter) error {
	if err := s.client.UpdateVoter(ctx, v); err != nil {
		return fmt.Errorf("error updating voter: %w", err)
	}
	return nil
}

func (s *adminService) DeleteVoter(ctx context.Context, voterID string) error {
	if err := s.client.DeleteVoter(ctx, voterID); err != nil {
		return fmt.Errorf("error deleting voter: %w", err)
	}
	return nil
}

// ImportVoters loads a roster in one atomic batch. Rows whose access code is
// already registered, or repeated within the file, are skipped and reported.
func (s *adminService) ImportVoters(ctx context.Context, electionID string, items []models.Voter) (*ImportReport, error) {
	existing, err := s.client.VotersByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error listing voters: %w", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, v := range existing {
		taken[v.AccessCode] = true
	}

	report := &ImportReport{}
	now := time.Now().UTC()

	var accepted []models.Voter
	for _, v := range items {
		if taken[v.AccessCode] {
			report.Skipped = append(report.Skipped, v.AccessCode)
			continue
		}
		taken[v.AccessCode] = true

		v.ElectionID = electionID
		v.CreatedAt = now
		accepted = append(accepted, v)
	}

	if err := s.client.ImportVoters(ctx, accepted); err != nil {
		return nil, fmt.Errorf("error importing voters: %w", err)
	}

	report.Imported = len(accepted)
	return report, nil
}
