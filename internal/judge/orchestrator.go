// Package judge drives the full lifecycle of one judging run: resolve the
// submission and rubric, provision a sandbox, execute the rubric's commands
// and turn the outcomes into a persisted score.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/artifact"
	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/internal/sandbox"
	"github.com/codearena/judge-worker/internal/scoring"
	"github.com/codearena/judge-worker/internal/store"
	"github.com/codearena/judge-worker/pkg/constants"
	"github.com/codearena/judge-worker/pkg/rubric"
)

// Orchestrator judges one submission end to end. JudgeSubmission returns
// the judgement run ID together with the pipeline error, if any; the run
// row exists and is in a terminal state in either case.
type Orchestrator interface {
	JudgeSubmission(ctx context.Context, req Request, progress ProgressFunc) (string, error)
}

type orchestrator struct {
	resolver     Resolver
	rubrics      rubric.Source
	artifacts    artifact.Store
	logs         artifact.Store
	sandbox      sandbox.Runtime
	runs         store.RunStore
	judgeVersion string
	logger       *zap.SugaredLogger
}

func NewOrchestrator(
	resolver Resolver,
	rubrics rubric.Source,
	artifacts artifact.Store,
	logs artifact.Store,
	runtime sandbox.Runtime,
	runs store.RunStore,
	judgeVersion string,
) Orchestrator {
	return &orchestrator{
		resolver:     resolver,
		rubrics:      rubrics,
		artifacts:    artifacts,
		logs:         logs,
		sandbox:      runtime,
		runs:         runs,
		judgeVersion: judgeVersion,
		logger:       logger.NewNamedLogger("judge"),
	}
}

func (o *orchestrator) JudgeSubmission(ctx context.Context, req Request, progress ProgressFunc) (string, error) {
	run := &store.JudgementRun{
		ID:           uuid.NewString(),
		MatchID:      req.MatchID,
		SubmissionID: req.SubmissionID,
		Status:       constants.RunStatusQueued,
		JudgeVersion: o.judgeVersion,
		StartedAt:    time.Now(),
	}
	if err := o.runs.CreateRun(run); err != nil {
		return "", fmt.Errorf("failed to create judgement run: %w", err)
	}

	if err := o.judge(ctx, req, run, progress); err != nil {
		o.logger.Errorf("Judging run %s failed: %s", run.ID, err)
		if markErr := o.runs.MarkFailed(run.ID); markErr != nil {
			o.logger.Errorf("Failed to mark run %s failed: %s", run.ID, markErr)
		}
		return run.ID, err
	}
	return run.ID, nil
}

// judge is the pipeline body. Any returned error leaves the run to be
// marked failed by the caller; cleanup of the sandbox and the temporary
// artifact directory happens here unconditionally.
func (o *orchestrator) judge(ctx context.Context, req Request, run *store.JudgementRun, progress ProgressFunc) error {
	if err := o.runs.MarkRunning(run.ID); err != nil {
		return err
	}
	progress.report(constants.ProgressStarted, "started")

	sub, err := o.resolver.ResolveSubmission(ctx, req.SubmissionID)
	if err != nil {
		return fmt.Errorf("failed to resolve submission %s: %w", req.SubmissionID, err)
	}
	rb, image, err := o.rubrics.Resolve(sub.ChallengeVersion)
	if err != nil {
		return fmt.Errorf("failed to resolve rubric for challenge %s: %w", sub.ChallengeVersion, err)
	}
	rb.Normalize(constants.DefaultCheckTimeoutSec)
	warnings, err := rb.Validate()
	if err != nil {
		return fmt.Errorf("rubric %s is malformed: %w", rb.Version, err)
	}
	for _, w := range warnings {
		o.logger.Warnf("Rubric %s: %s", rb.Version, w)
	}
	progress.report(constants.ProgressResolved, "resolved")

	artifactDir, err := artifact.DownloadToTemp(ctx, o.artifacts, sub.ArtifactKey)
	if err != nil {
		return fmt.Errorf("failed to fetch artifact %s: %w", sub.ArtifactKey, err)
	}
	defer func() {
		if err := os.RemoveAll(artifactDir); err != nil {
			o.logger.Errorf("Failed to remove artifact dir %s: %s", artifactDir, err)
		}
	}()

	session, err := o.sandbox.Create(ctx, artifactDir, sandbox.Config{Image: image})
	if err != nil {
		return fmt.Errorf("failed to provision sandbox: %w", err)
	}
	defer func() {
		if err := o.sandbox.Destroy(session); err != nil {
			o.logger.Errorf("Failed to destroy session %s: %s", session.ID, err)
		}
	}()
	if err := o.sandbox.CopyIn(ctx, session, artifactDir, constants.SandboxWorkspacePath); err != nil {
		return fmt.Errorf("failed to copy artifact into workspace: %w", err)
	}
	progress.report(constants.ProgressSandboxReady, "sandbox_ready")

	log := &runLog{}
	log.printf("run=%s submission=%s match=%s challenge=%s judge=%s",
		run.ID, sub.ID, sub.MatchID, sub.ChallengeVersion, o.judgeVersion)

	breakdown := Breakdown{
		InstallSuccess: true,
		BuildSuccess:   true,
		WeightWarnings: warnings,
	}

	if len(rb.InstallCommand) > 0 {
		res, err := o.runArgv(ctx, session, rb.InstallCommand, 0)
		if err != nil {
			return fmt.Errorf("install command failed to execute: %w", err)
		}
		log.command("install", rb.InstallCommand, res)
		if res.ExitCode != 0 {
			breakdown.InstallSuccess = false
			o.logger.Warnf("Install failed for run %s (exit %d), continuing", run.ID, res.ExitCode)
		}
	}
	if len(rb.BuildCommand) > 0 {
		res, err := o.runArgv(ctx, session, rb.BuildCommand, 0)
		if err != nil {
			return fmt.Errorf("build command failed to execute: %w", err)
		}
		log.command("build", rb.BuildCommand, res)
		if res.ExitCode != 0 {
			breakdown.BuildSuccess = false
			o.logger.Warnf("Build failed for run %s (exit %d), continuing with capped scoring", run.ID, res.ExitCode)
		}
	}
	progress.report(constants.ProgressBuildFinished, "build_finished")

	var reqScores []scoring.RequirementScore
	checksPassed := 0
	for _, requirement := range rb.Requirements {
		if requirement.Type == rubric.RequirementAIJudge {
			breakdown.SkippedAIJudge = append(breakdown.SkippedAIJudge, requirement.ID)
			continue
		}
		if len(requirement.Checks) > 0 {
			rs, passed, err := o.scoreChecks(ctx, session, requirement, log)
			if err != nil {
				return err
			}
			checksPassed += passed
			reqScores = append(reqScores, rs)
		}
	}

	ev := o.collectReports(ctx, session)
	ev.BuildSuccess = breakdown.BuildSuccess
	for _, requirement := range rb.Requirements {
		if requirement.Type != rubric.RequirementAutomated || len(requirement.Checks) > 0 {
			continue
		}
		rs := scoring.ScoreRequirement(requirement, ev)
		log.printf("--- requirement %s: score=%.1f weighted=%.1f (%s)",
			requirement.ID, rs.Score, rs.WeightedScore, rs.Details)
		reqScores = append(reqScores, rs)
	}

	tb := scoring.TieBreakers{
		TestsPassed:    ev.Tests.TotalPassed + checksPassed,
		CriticalErrors: ev.Tests.TotalErrors + lintErrorCount(ev.Lint),
		SubmitTime:     sub.SubmittedAt,
	}
	result := scoring.CalculateScore(reqScores, tb)
	log.printf("total score: %d/%d", result.TotalScore, result.MaxScore)
	progress.report(constants.ProgressChecksFinished, "checks_finished")

	logsKey := fmt.Sprintf("logs/%s.txt", run.ID)
	if err := o.logs.Upload(ctx, logsKey, log.Bytes(), "text/plain"); err != nil {
		o.logger.Errorf("Failed to upload logs for run %s: %s", run.ID, err)
		logsKey = ""
	}

	if err := o.saveScore(run, sub, breakdown, result); err != nil {
		return err
	}
	if err := o.runs.MarkSuccess(run.ID, logsKey); err != nil {
		return err
	}
	progress.report(constants.ProgressDone, "done")
	o.logger.Infof("Run %s judged: submission %s scored %d/%d",
		run.ID, sub.ID, result.TotalScore, result.MaxScore)
	return nil
}

// scoreChecks runs a requirement's checks sequentially inside the session.
// A check passes when it exits with its expected code within its timeout;
// a failing or timed out check loses its points but never aborts the run.
func (o *orchestrator) scoreChecks(ctx context.Context, session *sandbox.Session, requirement rubric.Requirement, log *runLog) (scoring.RequirementScore, int, error) {
	rs := scoring.RequirementScore{RequirementID: requirement.ID}

	earned, passed := 0, 0
	maxPoints := requirement.MaxPoints()
	for _, check := range requirement.Checks {
		res, err := o.sandbox.Execute(ctx, session, sandbox.Command{
			Command:        check.Command,
			Args:           check.Args,
			Cwd:            constants.SandboxWorkspacePath,
			TimeoutSeconds: check.TimeoutSeconds,
		})
		if err != nil {
			return rs, passed, fmt.Errorf("check %s failed to execute: %w", check.ID, err)
		}
		log.command("check "+check.ID, append([]string{check.Command}, check.Args...), res)

		ok := !res.TimedOut && res.ExitCode == check.ExpectedExitCode
		if ok {
			earned += check.Points
			passed++
		}
		rs.Evidence = append(rs.Evidence, fmt.Sprintf("check %s: exit=%d timed_out=%t passed=%t",
			check.ID, res.ExitCode, res.TimedOut, ok))
	}

	if maxPoints > 0 {
		rs.Score = float64(earned) / float64(maxPoints) * 100
	}
	rs.WeightedScore = rs.Score * float64(requirement.Weight) / 100
	rs.Details = fmt.Sprintf("%d/%d check points", earned, maxPoints)
	log.printf("--- requirement %s: score=%.1f weighted=%.1f (%s)",
		requirement.ID, rs.Score, rs.WeightedScore, rs.Details)
	return rs, passed, nil
}

func (o *orchestrator) runArgv(ctx context.Context, session *sandbox.Session, argv []string, timeoutSec int) (sandbox.Result, error) {
	return o.sandbox.Execute(ctx, session, sandbox.Command{
		Command:        argv[0],
		Args:           argv[1:],
		Cwd:            constants.SandboxWorkspacePath,
		TimeoutSeconds: timeoutSec,
	})
}

func (o *orchestrator) saveScore(run *store.JudgementRun, sub Submission, breakdown Breakdown, result scoring.ScoringResult) error {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("failed to serialize breakdown: %w", err)
	}
	resultsJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	return o.runs.SaveScore(&store.Score{
		ID:                   uuid.NewString(),
		JudgementRunID:       run.ID,
		UserID:               sub.UserID,
		TotalScore:           result.TotalScore,
		BreakdownJSON:        string(breakdownJSON),
		AutomatedResultsJSON: string(resultsJSON),
	})
}

func lintErrorCount(report *scoring.LintReport) int {
	if report == nil {
		return 0
	}
	return report.ErrorCount
}
