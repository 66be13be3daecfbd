package backend

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/votofacil/votofacil/internal/common"
	"github.com/votofacil/votofacil/internal/models"
)

const (
	colElections  = "elections"
	colCandidates = "candidates"
	colVoters     = "voters"
	colVotes      = "votes"
)

// FirestoreClient implements Client on top of the Cloud Firestore SDK.
type FirestoreClient struct {
	fs *firestore.Client
}

var _ Client = (*FirestoreClient)(nil)

// NewFirestoreClient dials Firestore for the given project. credentialsFile
// may be empty, in which case application default credentials are used.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("error connecting to firestore: %w", err)
	}

	return &FirestoreClient{fs: fs}, nil
}

func (c *FirestoreClient) Close() error {
	return c.fs.Close()
}

// mapError converts SDK transport errors into the package sentinels.
func (c *FirestoreClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("backend error: %w", err)
	}

	switch st.Code() {
	case codes.NotFound:
		return common.ErrNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrRemoteUnavailable
	default:
		return fmt.Errorf("backend error: %w", err)
	}
}

// Ping reads a single document reference from the elections collection.
// An empty collection still answers, so reachability is all it measures.
func (c *FirestoreClient) Ping(ctx context.Context) error {
	it := c.fs.Collection(colElections).Limit(1).Documents(ctx)
	defer it.Stop()

	if _, err := it.Next(); err != nil && err != iterator.Done {
		return c.mapError(err)
	}
	return nil
}

func (c *FirestoreClient) Elections(ctx context.Context) ([]models.Election, error) {
	return c.queryElections(ctx, c.fs.Collection(colElections).Query)
}

func (c *FirestoreClient) ActiveElections(ctx context.Context) ([]models.Election, error) {
	q := c.fs.Collection(colElections).Where("active", "==", true)
	return c.queryElections(ctx, q)
}

func (c *FirestoreClient) queryElections(ctx context.Context, q firestore.Query) ([]models.Election, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var result []models.Election
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, c.mapError(err)
		}

		var e models.Election
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("error decoding election %s: %w", doc.Ref.ID, err)
		}
		e.ID = doc.Ref.ID
		result = append(result, e)
	}
	return result, nil
}

func (c *FirestoreClient) CreateElection(ctx context.Context, e *models.Election) error {
	ref := c.fs.Collection(colElections).NewDoc()
	if _, err := ref.Create(ctx, e); err != nil {
		return c.mapError(err)
	}
	e.ID = ref.ID
	return nil
}

func (c *FirestoreClient) UpdateElection(ctx context.Context, e *models.Election) error {
	_, err := c.fs.Collection(colElections).Doc(e.ID).Set(ctx, e)
	return c.mapError(err)
}

// DeleteElection removes the election together with its candidates and voters
// in a single atomic batch. Votes are kept, matching the retention rule that
// cast ballots are never destroyed by catalog maintenance.
func (c *FirestoreClient) DeleteElection(ctx context.Context, electionID string) error {
	batch := c.fs.Batch()

	for _, col := range []string{colCandidates, colVoters} {
		it := c.fs.Collection(col).Where("electionId", "==", electionID).Documents(ctx)
		for {
			doc, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				it.Stop()
				return c.mapError(err)
			}
			batch.Delete(doc.Ref)
		}
		it.Stop()
	}

	batch.Delete(c.fs.Collection(colElections).Doc(electionID))

	_, err := batch.Commit(ctx)
	return c.mapError(err)
}

func (c *FirestoreClient) FinalizeElection(ctx context.Context, electionID string, at time.Time) error {
	_, err := c.fs.Collection(colElections).Doc(electionID).Update(ctx, []firestore.Update{
		{Path: "active", Value: false},
		{Path: "finalizedAt", Value: at},
	})
	return c.mapError(err)
}

func (c *FirestoreClient) CandidatesByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	it := c.fs.Collection(colCandidates).Where("electionId", "==", electionID).Documents(ctx)
	defer it.Stop()

	var result []models.Candidate
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, c.mapError(err)
		}

		var cand models.Candidate
		if err := doc.DataTo(&cand); err != nil {
			return nil, fmt.Errorf("error decoding candidate %s: %w", doc.Ref.ID, err)
		}
		cand.ID = doc.Ref.ID
		result = append(result, cand)
	}
	return result, nil
}

func (c *FirestoreClient) Candidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	doc, err := c.fs.Collection(colCandidates).Doc(candidateID).Get(ctx)
	if err != nil {
		return nil, c.mapError(err)
	}

	var cand models.Candidate
	if err := doc.DataTo(&cand); err != nil {
		return nil, fmt.Errorf("error decoding candidate %s: %w", candidateID, err)
	}
	cand.ID = doc.Ref.ID
	return &cand, nil
}

func (c *FirestoreClient) CreateCandidate(ctx context.Context, cand *models.Candidate) error {
	ref := c.fs.Collection(colCandidates).NewDoc()
	if _, err := ref.Create(ctx, cand); err != nil {
		return c.mapError(err)
	}
	cand.ID = ref.ID
	return nil
}

func (c *FirestoreClient) UpdateCandidate(ctx context.Context, cand *models.Candidate) error {
	_, err := c.fs.Collection(colCandidates).Doc(cand.ID).Set(ctx, cand)
	return c.mapError(err)
}

func (c *FirestoreClient) DeleteCandidate(ctx context.Context, candidateID string) error {
	_, err := c.fs.Collection(colCandidates).Doc(candidateID).Delete(ctx)
	return c.mapError(err)
}

func (c *FirestoreClient) VotersByElection(ctx context.Context, electionID string) ([]models.Voter, error) {
	it := c.fs.Collection(colVoters).Where("electionId", "==", electionID).Documents(ctx)
	defer it.Stop()

	var result []models.Voter
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, c.mapError(err)
		}

		var v models.Voter
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("error decoding voter %s: %w", doc.Ref.ID, err)
		}
		v.ID = doc.Ref.ID
		result = append(result, v)
	}
	return result, nil
}

func (c *FirestoreClient) FindVoter(ctx context.Context, accessCode, electionID string) (*models.Voter, error) {
	it := c.fs.Collection(colVoters).
		Where("accessCode", "==", accessCode).
		Where("electionId", "==", electionID).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if err == iterator.Done {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, c.mapError(err)
	}

	var v models.Voter
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("error decoding voter %s: %w", doc.Ref.ID, err)
	}
	v.ID = doc.Ref.ID
	return &v, nil
}

func (c *FirestoreClient) CreateVoter(ctx context.Context, v *models.Voter) error {
	ref := c.fs.Collection(colVoters).NewDoc()
	if _, err := ref.Create(ctx, v); err != nil {
		return c.mapError(err)
	}
	v.ID = ref.ID
	return nil
}

func (c *FirestoreClient) UpdateVoter(ctx context.Context, v *models.Voter) error {
	_, err := c.fs.Collection(colVoters).Doc(v.ID).Set(ctx, v)
	return c.mapError(err)
}

func (c *FirestoreClient) DeleteVoter(ctx context.Context, voterID string) error {
	_, err := c.fs.Collection(colVoters).Doc(voterID).Delete(ctx)
	return c.mapError(err)
}

// ImportVoters writes the whole roster slice atomically. Callers are expected
// to have filtered out duplicate access codes beforehand.
func (c *FirestoreClient) ImportVoters(ctx context.Context, items []models.Voter) error {
	if len(items) == 0 {
		return nil
	}

	batch := c.fs.Batch()
	for i := range items {
		ref := c.fs.Collection(colVoters).NewDoc()
		items[i].ID = ref.ID
		batch.Set(ref, &items[i])
	}

	_, err := batch.Commit(ctx)
	return c.mapError(err)
}

func (c *FirestoreClient) MarkVoterVoted(ctx context.Context, voterID string) error {
	_, err := c.fs.Collection(colVoters).Doc(voterID).Update(ctx, []firestore.Update{
		{Path: "voted", Value: true},
	})
	return c.mapError(err)
}

// CreateVote stores the ballot under its client-assigned id. The vote document
// never carries the voter id, so the ballot stays anonymous; replaying the
// same id reports common.ErrAlreadyExists, which queue replay treats as done.
func (c *FirestoreClient) CreateVote(ctx context.Context, vote models.Vote) error {
	_, err := c.fs.Collection(colVotes).Doc(vote.ID).Create(ctx, &vote)
	return c.mapError(err)
}

func (c *FirestoreClient) VotesByElection(ctx context.Context, electionID string) ([]models.Vote, error) {
	it := c.fs.Collection(colVotes).Where("electionId", "==", electionID).Documents(ctx)
	defer it.Stop()

	var result []models.Vote
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, c.mapError(err)
		}

		var v models.Vote
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("error decoding vote %s: %w", doc.Ref.ID, err)
		}
		v.ID = doc.Ref.ID
		result = append(result, v)
	}
	return result, nil
}
