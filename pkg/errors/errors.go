package errors

import "errors"

// Error values.
var (
	// Fatal, non-retryable: the referenced entity does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrRubricNotFound     = errors.New("rubric not found")
	ErrArtifactNotFound   = errors.New("artifact not found")

	// Retryable infrastructure failures.
	ErrSandboxProvision = errors.New("failed to provision sandbox")
	ErrImagePull        = errors.New("failed to pull judge image")
	ErrArtifactStore    = errors.New("artifact store request failed")

	ErrSessionDestroyed      = errors.New("sandbox session already destroyed")
	ErrNoFreeWorker          = errors.New("no free judging worker")
	ErrUnknownMessageType    = errors.New("unknown message type")
	ErrJobAlreadyActive      = errors.New("judging job already active for submission")
	ErrRunTerminal           = errors.New("judgement run is in a terminal state")
	ErrScoreAlreadyPersisted = errors.New("score already persisted for run")
)

// IsFatal reports whether err must not be retried by the queue layer.
// Missing submissions, matches, rubrics and artifacts never heal on retry.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrRubricNotFound) ||
		errors.Is(err, ErrArtifactNotFound)
}
