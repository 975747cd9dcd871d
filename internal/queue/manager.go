package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/codearena/judge-worker/internal/judge"
	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/internal/store"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
	"github.com/codearena/judge-worker/pkg/messages"
)

// jobNamespace seeds the deterministic job IDs; the same submission always
// maps to the same job ID, which is what makes enqueueing idempotent.
var jobNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("jobs.judge.codearena.io"))

// JobIDFor derives the deterministic job ID for a submission.
func JobIDFor(submissionID string) string {
	return uuid.NewSHA1(jobNamespace, []byte(submissionID)).String()
}

// JobContext tracks one judging job through the worker.
type JobContext struct {
	JobID        string
	MatchID      string
	SubmissionID string
	ReplyTo      string
	Attempt      int
	EnqueuedAt   time.Time
	Progress     int
	Stage        string
	Running      bool
}

// Manager owns the bounded worker pool. It enqueues jobs idempotently,
// schedules consumed jobs onto free workers, retries transient failures
// and settles the credit hold exactly once per job.
type Manager interface {
	EnqueueJudging(msg messages.JudgeJobMessage) (string, error)
	StartJudging(job *JobContext) error
	GetJudgingStatus(matchID string) map[string]interface{}
	StartRetentionSweep(ctx context.Context, interval time.Duration)
}

type manager struct {
	mu          sync.Mutex
	active      map[string]*JobContext
	busyWorkers int

	maxWorkers     int
	maxAttempts    int
	initialBackoff time.Duration
	limiter        *rate.Limiter

	channel        Channel
	judgeQueueName string
	orchestrator   judge.Orchestrator
	runs           store.RunStore
	ledger         Ledger
	responder      Responder
	logger         *zap.SugaredLogger
}

func NewManager(
	channel Channel,
	judgeQueueName string,
	orchestrator judge.Orchestrator,
	runs store.RunStore,
	ledger Ledger,
	responder Responder,
	maxWorkers, jobStartsPerMin, maxAttempts, initialBackoffMs int,
) Manager {
	return &manager{
		active:         make(map[string]*JobContext),
		maxWorkers:     maxWorkers,
		maxAttempts:    maxAttempts,
		initialBackoff: time.Duration(initialBackoffMs) * time.Millisecond,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(jobStartsPerMin)), jobStartsPerMin),
		channel:        channel,
		judgeQueueName: judgeQueueName,
		orchestrator:   orchestrator,
		runs:           runs,
		ledger:         ledger,
		responder:      responder,
		logger:         logger.NewNamedLogger("queueManager"),
	}
}

// EnqueueJudging publishes a judging job for the submission. Enqueueing is
// idempotent: a submission that is already tracked in this process or has
// an active run in the store yields the same job ID without a second
// publish.
func (m *manager) EnqueueJudging(msg messages.JudgeJobMessage) (string, error) {
	jobID := JobIDFor(msg.SubmissionID)

	m.mu.Lock()
	_, tracked := m.active[jobID]
	if !tracked {
		m.active[jobID] = &JobContext{
			JobID:        jobID,
			MatchID:      msg.MatchID,
			SubmissionID: msg.SubmissionID,
			EnqueuedAt:   time.Now(),
			Stage:        "enqueued",
		}
	}
	m.mu.Unlock()
	if tracked {
		m.logger.Infof("Job %s already tracked for submission %s, skipping publish", jobID, msg.SubmissionID)
		return jobID, nil
	}

	hasActive, err := m.runs.HasActiveRun(msg.SubmissionID)
	if err != nil {
		m.untrack(jobID)
		return "", err
	}
	if hasActive {
		m.untrack(jobID)
		m.logger.Infof("Submission %s already has an active run, skipping publish", msg.SubmissionID)
		return jobID, nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.untrack(jobID)
		return "", err
	}
	body, err := json.Marshal(messages.QueueMessage{
		Type:      constants.QueueMessageTypeJudge,
		MessageID: jobID,
		Payload:   payload,
	})
	if err != nil {
		m.untrack(jobID)
		return "", err
	}

	err = m.channel.Publish("", m.judgeQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: jobID,
		Body:          body,
	})
	if err != nil {
		m.untrack(jobID)
		return "", err
	}
	return jobID, nil
}

// StartJudging claims a worker slot for the job and judges it on a
// background goroutine. ErrNoFreeWorker tells the caller to requeue;
// ErrJobAlreadyActive tells it to drop the duplicate.
func (m *manager) StartJudging(job *JobContext) error {
	m.mu.Lock()
	if existing, ok := m.active[job.JobID]; ok && existing.Running {
		m.mu.Unlock()
		return pkgerrors.ErrJobAlreadyActive
	}
	if m.busyWorkers >= m.maxWorkers {
		m.mu.Unlock()
		return pkgerrors.ErrNoFreeWorker
	}
	m.busyWorkers++
	job.Running = true
	job.Stage = "scheduled"
	m.active[job.JobID] = job
	m.mu.Unlock()

	go m.run(job)
	return nil
}

func (m *manager) run(job *JobContext) {
	defer func() {
		m.mu.Lock()
		m.busyWorkers--
		delete(m.active, job.JobID)
		m.mu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorf("Judging job %s panicked: %v", job.JobID, r)
		}
	}()

	ctx := context.Background()
	if err := m.limiter.Wait(ctx); err != nil {
		m.logger.Errorf("Rate limiter rejected job %s: %s", job.JobID, err)
		return
	}

	progress := judge.ProgressFunc(func(p int, stage string) {
		m.mu.Lock()
		job.Progress = p
		job.Stage = stage
		m.mu.Unlock()
		m.responder.PublishProgress(job.JobID, job.MatchID, p, stage)
	})

	var runID string
	operation := func() error {
		m.mu.Lock()
		job.Attempt++
		attempt := job.Attempt
		m.mu.Unlock()
		if attempt > 1 {
			m.logger.Infof("Retrying job %s, attempt %d of %d", job.JobID, attempt, m.maxAttempts)
		}

		var err error
		runID, err = m.orchestrator.JudgeSubmission(ctx, judge.Request{
			JobID:        job.JobID,
			MatchID:      job.MatchID,
			SubmissionID: job.SubmissionID,
		}, progress)
		if err != nil && pkgerrors.IsFatal(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.initialBackoff
	err := backoff.Retry(operation, backoff.WithMaxRetries(bo, uint64(m.maxAttempts-1)))
	if err != nil {
		m.logger.Errorf("Job %s failed after %d attempt(s): %s", job.JobID, job.Attempt, err)
		if ledgerErr := m.ledger.ReleaseHold(job.JobID); ledgerErr != nil {
			m.logger.Errorf("Failed to release hold for job %s: %s", job.JobID, ledgerErr)
		}
		if job.ReplyTo != "" {
			m.responder.PublishErrorToResponseQueue(constants.QueueMessageTypeJudge, job.JobID, job.ReplyTo, err)
		}
		return
	}

	if ledgerErr := m.ledger.ConsumeHold(job.JobID); ledgerErr != nil {
		m.logger.Errorf("Failed to consume hold for job %s: %s", job.JobID, ledgerErr)
	}
	if job.ReplyTo != "" {
		respondErr := m.responder.PublishJudgedRespond(job.JobID, job.ReplyTo, messages.JudgedMessage{
			JobID:          job.JobID,
			MatchID:        job.MatchID,
			SubmissionID:   job.SubmissionID,
			JudgementRunID: runID,
		})
		if respondErr != nil {
			m.logger.Errorf("Failed to publish judged response for job %s: %s", job.JobID, respondErr)
		}
	}
}

// GetJudgingStatus reports the aggregate judging state plus the jobs and
// runs known for a match. An empty matchID reports everything active in
// this worker.
func (m *manager) GetJudgingStatus(matchID string) map[string]interface{} {
	m.mu.Lock()
	jobs := make([]map[string]interface{}, 0)
	running, pending := false, false
	for _, job := range m.active {
		if matchID != "" && job.MatchID != matchID {
			continue
		}
		if job.Running {
			running = true
		} else {
			pending = true
		}
		jobs = append(jobs, map[string]interface{}{
			"job_id":        job.JobID,
			"submission_id": job.SubmissionID,
			"attempt":       job.Attempt,
			"progress":      job.Progress,
			"stage":         job.Stage,
		})
	}
	status := map[string]interface{}{
		"busy_workers":  m.busyWorkers,
		"total_workers": m.maxWorkers,
		"active_jobs":   jobs,
	}
	m.mu.Unlock()

	var runs []store.JudgementRun
	if matchID != "" {
		var err error
		runs, err = m.runs.RunsByMatch(matchID)
		if err != nil {
			m.logger.Errorf("Failed to load runs for match %s: %s", matchID, err)
			runs = nil
		} else {
			rows := make([]map[string]interface{}, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, map[string]interface{}{
					"run_id":        run.ID,
					"submission_id": run.SubmissionID,
					"status":        run.Status,
				})
			}
			status["runs"] = rows
		}
	}
	status["status"] = aggregateStatus(running, pending, runs)
	return status
}

// aggregateStatus folds the in-flight jobs and stored runs into one
// match-level state. Anything still moving wins over terminal history;
// otherwise the latest run decides between completed and failed.
func aggregateStatus(running, pending bool, runs []store.JudgementRun) string {
	var latest *store.JudgementRun
	for i := range runs {
		switch runs[i].Status {
		case constants.RunStatusRunning:
			running = true
		case constants.RunStatusQueued:
			pending = true
		default:
			if latest == nil || runs[i].StartedAt.After(latest.StartedAt) {
				latest = &runs[i]
			}
		}
	}
	switch {
	case running:
		return constants.MatchStatusRunning
	case pending:
		return constants.MatchStatusPending
	case latest == nil:
		return constants.MatchStatusPending
	case latest.Status == constants.RunStatusSuccess:
		return constants.MatchStatusCompleted
	default:
		return constants.MatchStatusFailed
	}
}

// StartRetentionSweep prunes terminal runs past their retention window on
// a fixed interval until the context is cancelled.
func (m *manager) StartRetentionSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruned, err := m.runs.PruneTerminalRuns(time.Now())
				if err != nil {
					m.logger.Errorf("Retention sweep failed: %s", err)
					continue
				}
				if pruned > 0 {
					m.logger.Infof("Retention sweep pruned %d run(s)", pruned)
				}
			}
		}
	}()
}

func (m *manager) untrack(jobID string) {
	m.mu.Lock()
	delete(m.active, jobID)
	m.mu.Unlock()
}
