package messages

import (
	"encoding/json"
	"time"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

// JudgeJobMessage is the payload of a judging job. The message ID of the
// envelope carries the deterministic job ID derived from the submission.
type JudgeJobMessage struct {
	MatchID          string    `json:"match_id"`
	SubmissionID     string    `json:"submission_id"`
	ChallengeVersion string    `json:"challenge_version"`
	ArtifactKey      string    `json:"artifact_key"`
	UserID           string    `json:"user_id"`
	SubmittedAt      time.Time `json:"submitted_at"`
	Attempt          int       `json:"attempt"`
}

type ProgressMessage struct {
	JobID    string `json:"job_id"`
	MatchID  string `json:"match_id"`
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
}

// StatusRequestMessage asks for the judging status of one match.
type StatusRequestMessage struct {
	MatchID string `json:"match_id"`
}

// JudgedMessage reports one finished judging run.
type JudgedMessage struct {
	JobID          string `json:"job_id"`
	MatchID        string `json:"match_id"`
	SubmissionID   string `json:"submission_id"`
	JudgementRunID string `json:"judgement_run_id"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}
