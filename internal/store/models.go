package store

import "time"

// JudgementRun is the persisted record of one judging attempt. Status
// transitions are one-directional; success and failed are terminal and
// immutable.
type JudgementRun struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	MatchID      string     `json:"match_id" gorm:"index"`
	SubmissionID string     `json:"submission_id" gorm:"index"`
	Status       string     `json:"status" gorm:"index"`
	JudgeVersion string     `json:"judge_version"`
	LogsKey      string     `json:"logs_key,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// SubmissionRecord mirrors the platform-owned submissions table. The
// worker only reads it; the platform writes it when an artifact lands.
type SubmissionRecord struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	MatchID          string    `json:"match_id" gorm:"index"`
	UserID           string    `json:"user_id"`
	ArtifactKey      string    `json:"artifact_key"`
	ChallengeVersion string    `json:"challenge_version"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

func (SubmissionRecord) TableName() string { return "submissions" }

// Score is immutable once written. A retried job produces a fresh
// JudgementRun/Score pair instead of mutating an old one.
type Score struct {
	ID                   string `json:"id" gorm:"primaryKey"`
	JudgementRunID       string `json:"judgement_run_id" gorm:"uniqueIndex"`
	UserID               string `json:"user_id" gorm:"index"`
	TotalScore           int    `json:"total_score"`
	BreakdownJSON        string `json:"breakdown_json"`
	AutomatedResultsJSON string `json:"automated_results_json"`
	AIJudgeResultsJSON   string `json:"ai_judge_results_json,omitempty"`
}
