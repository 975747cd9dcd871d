package judge

import (
	"context"

	"github.com/codearena/judge-worker/internal/store"
)

type storeResolver struct {
	submissions store.SubmissionStore
}

// NewStoreResolver resolves submissions from the platform's database.
func NewStoreResolver(submissions store.SubmissionStore) Resolver {
	return &storeResolver{submissions: submissions}
}

func (r *storeResolver) ResolveSubmission(_ context.Context, submissionID string) (Submission, error) {
	record, err := r.submissions.SubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		ID:               record.ID,
		MatchID:          record.MatchID,
		UserID:           record.UserID,
		ArtifactKey:      record.ArtifactKey,
		ChallengeVersion: record.ChallengeVersion,
		SubmittedAt:      record.SubmittedAt,
	}, nil
}
