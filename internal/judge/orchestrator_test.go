package judge

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codearena/judge-worker/internal/sandbox"
	"github.com/codearena/judge-worker/internal/store"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
	"github.com/codearena/judge-worker/pkg/rubric"
)

type fakeResolver struct {
	sub Submission
	err error
}

func (f *fakeResolver) ResolveSubmission(_ context.Context, _ string) (Submission, error) {
	return f.sub, f.err
}

type fakeRubricSource struct {
	rb    rubric.Rubric
	image string
	err   error
}

func (f *fakeRubricSource) Resolve(_ string) (rubric.Rubric, string, error) {
	return f.rb, f.image, f.err
}

type fakeArtifacts struct {
	mu      sync.Mutex
	data    []byte
	err     error
	uploads map[string][]byte
}

func (f *fakeArtifacts) Download(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

func (f *fakeArtifacts) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return nil
}

type fakeRuntime struct {
	results      []sandbox.Result
	execErr      error
	execCalls    [][]string
	createErr    error
	destroyCalls int
	reportsTar   []byte
}

func (f *fakeRuntime) Create(_ context.Context, _ string, cfg sandbox.Config) (*sandbox.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &sandbox.Session{ID: "session-1", ContainerID: "container-1", Config: cfg}, nil
}

func (f *fakeRuntime) Execute(_ context.Context, _ *sandbox.Session, cmd sandbox.Command) (sandbox.Result, error) {
	f.execCalls = append(f.execCalls, append([]string{cmd.Command}, cmd.Args...))
	if f.execErr != nil {
		return sandbox.Result{}, f.execErr
	}
	if len(f.results) == 0 {
		return sandbox.Result{ExitCode: 0}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

func (f *fakeRuntime) Destroy(_ *sandbox.Session) error {
	f.destroyCalls++
	return nil
}

func (f *fakeRuntime) CopyIn(_ context.Context, _ *sandbox.Session, _, _ string) error {
	return nil
}

func (f *fakeRuntime) CopyOut(_ context.Context, _ *sandbox.Session, _ string) (io.ReadCloser, error) {
	if f.reportsTar == nil {
		return nil, errors.New("no such path")
	}
	return io.NopCloser(bytes.NewReader(f.reportsTar)), nil
}

type fakeRunStore struct {
	mu          sync.Mutex
	runs        map[string]*store.JudgementRun
	transitions []string
	score       *store.Score
	logsKey     string
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[string]*store.JudgementRun)}
}

func (f *fakeRunStore) CreateRun(run *store.JudgementRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunStore) mark(runID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[runID]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = status
	f.transitions = append(f.transitions, status)
	return nil
}

func (f *fakeRunStore) MarkRunning(runID string) error { return f.mark(runID, constants.RunStatusRunning) }

func (f *fakeRunStore) MarkSuccess(runID, logsKey string) error {
	if err := f.mark(runID, constants.RunStatusSuccess); err != nil {
		return err
	}
	f.logsKey = logsKey
	return nil
}

func (f *fakeRunStore) MarkFailed(runID string) error { return f.mark(runID, constants.RunStatusFailed) }

func (f *fakeRunStore) SaveScore(score *store.Score) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.score != nil {
		return pkgerrors.ErrScoreAlreadyPersisted
	}
	f.score = score
	return nil
}

func (f *fakeRunStore) HasActiveRun(_ string) (bool, error) { return false, nil }

func (f *fakeRunStore) RunsByMatch(_ string) ([]store.JudgementRun, error) { return nil, nil }

func (f *fakeRunStore) ScoreByRun(_ string) (*store.Score, error) { return f.score, nil }

func (f *fakeRunStore) PruneTerminalRuns(_ time.Time) (int64, error) { return 0, nil }

func (f *fakeRunStore) status(runID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[runID].Status
}

func tarWithFile(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatalf("WriteHeader: %s", err)
	}
	if _, err := tw.Write(data); err != nil {
		t.Fatalf("Write: %s", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	return buf.Bytes()
}

func testSubmission() Submission {
	return Submission{
		ID:               "sub-1",
		MatchID:          "match-1",
		UserID:           "user-1",
		ArtifactKey:      "artifacts/sub-1.tar.gz",
		ChallengeVersion: "challenge-v1",
		SubmittedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func checkRubric(points int) rubric.Rubric {
	return rubric.Rubric{
		Version: "v1",
		Requirements: []rubric.Requirement{{
			ID:     "req-1",
			Name:   "unit tests",
			Weight: 100,
			Type:   rubric.RequirementAutomated,
			Checks: []rubric.Check{{
				ID:      "check-1",
				Command: "npm",
				Args:    []string{"test"},
				Points:  points,
			}},
		}},
	}
}

func newTestOrchestrator(resolver *fakeResolver, source *fakeRubricSource, runtime *fakeRuntime, runs *fakeRunStore, logs *fakeArtifacts) Orchestrator {
	artifacts := &fakeArtifacts{data: []byte("opaque blob")}
	return NewOrchestrator(resolver, source, artifacts, logs, runtime, runs, "judge-test")
}

func TestJudgeSubmission_Success(t *testing.T) {
	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: checkRubric(10), image: "judge/node:20"}
	runtime := &fakeRuntime{results: []sandbox.Result{{ExitCode: 0}}}
	runs := newFakeRunStore()
	logs := &fakeArtifacts{}

	var milestones []int
	progress := func(p int, _ string) { milestones = append(milestones, p) }

	runID, err := newTestOrchestrator(resolver, source, runtime, runs, logs).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, progress)
	if err != nil {
		t.Fatalf("JudgeSubmission: %s", err)
	}
	if got := runs.status(runID); got != constants.RunStatusSuccess {
		t.Errorf("run status = %q, want %q", got, constants.RunStatusSuccess)
	}
	if runs.score == nil {
		t.Fatal("no score persisted")
	}
	if runs.score.TotalScore != 100 {
		t.Errorf("TotalScore = %d, want 100", runs.score.TotalScore)
	}
	if runtime.destroyCalls != 1 {
		t.Errorf("destroyCalls = %d, want 1", runtime.destroyCalls)
	}
	if runs.logsKey != "logs/"+runID+".txt" {
		t.Errorf("logsKey = %q", runs.logsKey)
	}
	if _, ok := logs.uploads[runs.logsKey]; !ok {
		t.Errorf("logs not uploaded under %q", runs.logsKey)
	}
	if len(milestones) == 0 || milestones[len(milestones)-1] != constants.ProgressDone {
		t.Errorf("milestones = %v, want final %d", milestones, constants.ProgressDone)
	}
}

func TestJudgeSubmission_TimedOutCheckScoresZero(t *testing.T) {
	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: checkRubric(10), image: "judge/node:20"}
	runtime := &fakeRuntime{results: []sandbox.Result{
		{ExitCode: constants.ExitCodeTimeout, TimedOut: true},
	}}
	runs := newFakeRunStore()

	runID, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, nil)
	if err != nil {
		t.Fatalf("JudgeSubmission: %s", err)
	}
	if got := runs.status(runID); got != constants.RunStatusSuccess {
		t.Errorf("run status = %q, want %q; a timed out check must not abort the run", got, constants.RunStatusSuccess)
	}
	if runs.score == nil || runs.score.TotalScore != 0 {
		t.Errorf("score = %+v, want total 0", runs.score)
	}
}

func TestJudgeSubmission_MissingSubmissionIsFatal(t *testing.T) {
	resolver := &fakeResolver{err: pkgerrors.ErrSubmissionNotFound}
	source := &fakeRubricSource{rb: checkRubric(10), image: "judge/node:20"}
	runtime := &fakeRuntime{}
	runs := newFakeRunStore()

	runID, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "missing"}, nil)
	if !errors.Is(err, pkgerrors.ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound", err)
	}
	if !pkgerrors.IsFatal(err) {
		t.Error("missing submission should be fatal")
	}
	if got := runs.status(runID); got != constants.RunStatusFailed {
		t.Errorf("run status = %q, want %q", got, constants.RunStatusFailed)
	}
	if len(runtime.execCalls) != 0 || runtime.destroyCalls != 0 {
		t.Error("no sandbox should have been provisioned")
	}
}

func TestJudgeSubmission_ExecErrorDestroysSession(t *testing.T) {
	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: checkRubric(10), image: "judge/node:20"}
	runtime := &fakeRuntime{execErr: errors.New("daemon gone")}
	runs := newFakeRunStore()

	runID, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := runs.status(runID); got != constants.RunStatusFailed {
		t.Errorf("run status = %q, want %q", got, constants.RunStatusFailed)
	}
	if runtime.destroyCalls != 1 {
		t.Errorf("destroyCalls = %d, want 1; sessions must not leak on failure", runtime.destroyCalls)
	}
}

func TestJudgeSubmission_BuildFailureCapsReportScore(t *testing.T) {
	junit := []byte(`<testsuite name="app" tests="4" failures="0">` +
		`<testcase name="a"/><testcase name="b"/><testcase name="c"/><testcase name="d"/>` +
		`</testsuite>`)

	rb := rubric.Rubric{
		Version:      "v1",
		BuildCommand: []string{"npm", "run", "build"},
		Requirements: []rubric.Requirement{{
			ID:            "req-1",
			Name:          "unit tests",
			Weight:        100,
			Type:          rubric.RequirementAutomated,
			Tests:         []string{"*"},
			BuildEvidence: true,
		}},
	}

	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: rb, image: "judge/node:20"}
	runtime := &fakeRuntime{
		results:    []sandbox.Result{{ExitCode: 1, Stderr: "build broke"}},
		reportsTar: tarWithFile(t, "reports/junit.xml", junit),
	}
	runs := newFakeRunStore()

	_, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, nil)
	if err != nil {
		t.Fatalf("JudgeSubmission: %s", err)
	}
	if runs.score == nil {
		t.Fatal("no score persisted")
	}
	if runs.score.TotalScore != 25 {
		t.Errorf("TotalScore = %d, want 25 with a failed build", runs.score.TotalScore)
	}
	if !strings.Contains(runs.score.BreakdownJSON, `"build_success":false`) {
		t.Errorf("breakdown missing build failure: %s", runs.score.BreakdownJSON)
	}
}

func TestJudgeSubmission_BuildFailurePartialCredit(t *testing.T) {
	junit := []byte(`<testsuite name="app" tests="4" failures="0">` +
		`<testcase name="a"/><testcase name="b"/><testcase name="c"/><testcase name="d"/>` +
		`</testsuite>`)

	rb := rubric.Rubric{
		Version:      "v1",
		BuildCommand: []string{"npm", "run", "build"},
		Requirements: []rubric.Requirement{
			{
				ID:     "req-check",
				Name:   "smoke check",
				Weight: 50,
				Type:   rubric.RequirementAutomated,
				Checks: []rubric.Check{{
					ID:      "check-1",
					Command: "npm",
					Args:    []string{"run", "smoke"},
					Points:  10,
				}},
			},
			{
				ID:     "req-tests",
				Name:   "unit tests",
				Weight: 50,
				Type:   rubric.RequirementAutomated,
				Tests:  []string{"*"},
			},
		},
	}

	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: rb, image: "judge/node:20"}
	runtime := &fakeRuntime{
		results: []sandbox.Result{
			{ExitCode: 1, Stderr: "build broke"},
			{ExitCode: 0},
		},
		reportsTar: tarWithFile(t, "reports/junit.xml", junit),
	}
	runs := newFakeRunStore()

	_, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, nil)
	if err != nil {
		t.Fatalf("JudgeSubmission: %s", err)
	}
	if runs.score == nil {
		t.Fatal("no score persisted")
	}
	// Neither requirement carries build evidence, so the failed build
	// costs nothing: both contribute their full weighted share.
	if runs.score.TotalScore != 100 {
		t.Errorf("TotalScore = %d, want 100 despite the failed build", runs.score.TotalScore)
	}
	if !strings.Contains(runs.score.BreakdownJSON, `"build_success":false`) {
		t.Errorf("breakdown missing build failure: %s", runs.score.BreakdownJSON)
	}
}

func TestJudgeSubmission_AIJudgeRequirementsSkipped(t *testing.T) {
	rb := checkRubric(10)
	rb.Requirements[0].Weight = 60
	rb.Requirements = append(rb.Requirements, rubric.Requirement{
		ID:     "req-ai",
		Name:   "code quality",
		Weight: 40,
		Type:   rubric.RequirementAIJudge,
	})

	resolver := &fakeResolver{sub: testSubmission()}
	source := &fakeRubricSource{rb: rb, image: "judge/node:20"}
	runtime := &fakeRuntime{results: []sandbox.Result{{ExitCode: 0}}}
	runs := newFakeRunStore()

	_, err := newTestOrchestrator(resolver, source, runtime, runs, &fakeArtifacts{}).
		JudgeSubmission(context.Background(), Request{MatchID: "match-1", SubmissionID: "sub-1"}, nil)
	if err != nil {
		t.Fatalf("JudgeSubmission: %s", err)
	}
	if runs.score == nil {
		t.Fatal("no score persisted")
	}
	// 60 weighted points from the passing check, nothing from the skipped
	// AI requirement.
	if runs.score.TotalScore != 60 {
		t.Errorf("TotalScore = %d, want 60", runs.score.TotalScore)
	}
	if !strings.Contains(runs.score.BreakdownJSON, "req-ai") {
		t.Errorf("breakdown should list skipped requirement: %s", runs.score.BreakdownJSON)
	}
}
