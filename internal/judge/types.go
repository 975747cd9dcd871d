package judge

import (
	"context"
	"time"
)

// Submission is the resolved view of one judged submission. Resolution is
// owned by the platform; the orchestrator only consumes the contract.
type Submission struct {
	ID               string
	MatchID          string
	UserID           string
	ArtifactKey      string
	ChallengeVersion string
	SubmittedAt      time.Time
}

// Resolver looks up submissions. A missing submission is fatal: it never
// heals on retry.
type Resolver interface {
	ResolveSubmission(ctx context.Context, submissionID string) (Submission, error)
}

// Request identifies one judging run to perform.
type Request struct {
	JobID        string
	MatchID      string
	SubmissionID string
}

// ProgressFunc reports coarse pipeline milestones to external observers.
// A nil ProgressFunc is valid and reports nothing.
type ProgressFunc func(progress int, stage string)

func (f ProgressFunc) report(progress int, stage string) {
	if f != nil {
		f(progress, stage)
	}
}

// Breakdown is the per-run scoring detail persisted alongside the total.
type Breakdown struct {
	BuildSuccess   bool     `json:"build_success"`
	InstallSuccess bool     `json:"install_success"`
	WeightWarnings []string `json:"weight_warnings,omitempty"`
	SkippedAIJudge []string `json:"skipped_ai_judge,omitempty"`
}
