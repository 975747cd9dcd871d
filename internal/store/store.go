// Package store persists judgement runs and scores.
package store

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
)

type RunStore interface {
	CreateRun(run *JudgementRun) error
	MarkRunning(runID string) error
	MarkSuccess(runID, logsKey string) error
	MarkFailed(runID string) error
	SaveScore(score *Score) error
	HasActiveRun(submissionID string) (bool, error)
	RunsByMatch(matchID string) ([]JudgementRun, error)
	ScoreByRun(runID string) (*Score, error)
	PruneTerminalRuns(now time.Time) (int64, error)
}

type gormStore struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// Connect opens the postgres database and migrates the judgement schema.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// The postgres driver only surfaces gorm.ErrDuplicatedKey and
		// friends when translation is on; SaveScore relies on it.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&JudgementRun{}, &Score{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}

func NewRunStore(db *gorm.DB) RunStore {
	return &gormStore{
		db:     db,
		logger: logger.NewNamedLogger("store"),
	}
}

func (s *gormStore) CreateRun(run *JudgementRun) error {
	if run.Status == "" {
		run.Status = constants.RunStatusQueued
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return s.db.Create(run).Error
}

func (s *gormStore) MarkRunning(runID string) error {
	return s.transition(runID, constants.RunStatusRunning, []string{constants.RunStatusQueued}, nil)
}

func (s *gormStore) MarkSuccess(runID, logsKey string) error {
	extra := map[string]interface{}{"logs_key": logsKey}
	return s.transition(runID, constants.RunStatusSuccess,
		[]string{constants.RunStatusQueued, constants.RunStatusRunning}, extra)
}

func (s *gormStore) MarkFailed(runID string) error {
	return s.transition(runID, constants.RunStatusFailed,
		[]string{constants.RunStatusQueued, constants.RunStatusRunning}, nil)
}

// transition updates a run's status only from the allowed source states,
// so terminal runs can never be resurrected.
func (s *gormStore) transition(runID, to string, from []string, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	if to == constants.RunStatusSuccess || to == constants.RunStatusFailed {
		now := time.Now()
		updates["completed_at"] = &now
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := s.db.Model(&JudgementRun{}).
		Where("id = ? AND status IN ?", runID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: run %s -> %s", pkgerrors.ErrRunTerminal, runID, to)
	}
	return nil
}

func (s *gormStore) SaveScore(score *Score) error {
	err := s.db.Create(score).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: run %s", pkgerrors.ErrScoreAlreadyPersisted, score.JudgementRunID)
	}
	return err
}

func (s *gormStore) HasActiveRun(submissionID string) (bool, error) {
	var count int64
	err := s.db.Model(&JudgementRun{}).
		Where("submission_id = ? AND status IN ?", submissionID,
			[]string{constants.RunStatusQueued, constants.RunStatusRunning}).
		Count(&count).Error
	return count > 0, err
}

// SubmissionStore reads the platform-owned submissions table.
type SubmissionStore interface {
	SubmissionByID(submissionID string) (*SubmissionRecord, error)
}

func NewSubmissionStore(db *gorm.DB) SubmissionStore {
	return &gormStore{
		db:     db,
		logger: logger.NewNamedLogger("store"),
	}
}

func (s *gormStore) SubmissionByID(submissionID string) (*SubmissionRecord, error) {
	var record SubmissionRecord
	err := s.db.Where("id = ?", submissionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrSubmissionNotFound, submissionID)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *gormStore) RunsByMatch(matchID string) ([]JudgementRun, error) {
	var runs []JudgementRun
	err := s.db.Where("match_id = ?", matchID).Order("started_at").Find(&runs).Error
	return runs, err
}

func (s *gormStore) ScoreByRun(runID string) (*Score, error) {
	var score Score
	err := s.db.Where("judgement_run_id = ?", runID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// PruneTerminalRuns removes terminal runs past their retention window:
// 24 hours for success, 7 days for failed.
func (s *gormStore) PruneTerminalRuns(now time.Time) (int64, error) {
	var total int64

	completed := s.db.
		Where("status = ? AND completed_at < ?",
			constants.RunStatusSuccess, now.Add(-constants.CompletedRunRetentionHours*time.Hour)).
		Delete(&JudgementRun{})
	if completed.Error != nil {
		return total, completed.Error
	}
	total += completed.RowsAffected

	failed := s.db.
		Where("status = ? AND completed_at < ?",
			constants.RunStatusFailed, now.Add(-constants.FailedRunRetentionHours*time.Hour)).
		Delete(&JudgementRun{})
	if failed.Error != nil {
		return total, failed.Error
	}
	total += failed.RowsAffected

	if total > 0 {
		s.logger.Infof("Pruned %d terminal judgement runs", total)
	}
	return total, nil
}
