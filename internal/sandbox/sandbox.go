// Package sandbox creates resource-constrained, network-isolated execution
// contexts for untrusted submissions and runs single commands inside them.
package sandbox

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codearena/judge-worker/internal/archive"
	"github.com/codearena/judge-worker/internal/logger"
	"github.com/codearena/judge-worker/pkg/constants"
	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
)

var containerNameRegex = regexp.MustCompile("[^a-zA-Z0-9_.-]")

// Config describes one session's resource envelope. It is immutable for
// the session's lifetime: all limits are applied at creation.
type Config struct {
	Image            string
	CPULimit         float64
	MemoryLimitBytes int64
	TimeoutSeconds   int
	NetworkEnabled   bool
}

func (c *Config) applyDefaults() {
	if c.CPULimit <= 0 {
		c.CPULimit = constants.DefaultSandboxCPUs
	}
	if c.MemoryLimitBytes <= 0 {
		c.MemoryLimitBytes = constants.DefaultSandboxMemoryBytes
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = constants.DefaultSandboxTimeoutSec
	}
}

// Session is one live isolated execution context. It is owned exclusively
// by the orchestrator call that created it and must always reach destroyed.
type Session struct {
	ID                string
	ContainerID       string
	Config            Config
	ArtifactMountPath string
	StartedAt         time.Time

	mu        sync.Mutex // commands execute strictly sequentially
	destroyed atomic.Bool
}

type Command struct {
	Command        string
	Args           []string
	Cwd            string
	TimeoutSeconds int
}

type Result struct {
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMs int64  `json:"duration_ms"`
	TimedOut   bool   `json:"timed_out"`
	OOMKilled  bool   `json:"oom_killed"`
}

type Runtime interface {
	Create(ctx context.Context, artifactPath string, cfg Config) (*Session, error)
	Execute(ctx context.Context, session *Session, cmd Command) (Result, error)
	Destroy(session *Session) error
	CopyIn(ctx context.Context, session *Session, srcDir, dstPath string) error
	CopyOut(ctx context.Context, session *Session, srcPath string) (io.ReadCloser, error)
}

type sandboxRuntime struct {
	engine ContainerEngine
	logger *zap.SugaredLogger
}

func NewRuntime(engine ContainerEngine) Runtime {
	return &sandboxRuntime{
		engine: engine,
		logger: logger.NewNamedLogger("sandbox"),
	}
}

// Create provisions an isolated context with the artifact mounted
// read-only and a writable tmpfs workspace. Failure to provision is a
// retryable infrastructure error.
func (r *sandboxRuntime) Create(ctx context.Context, artifactPath string, cfg Config) (*Session, error) {
	cfg.applyDefaults()

	pullCtx, cancel := context.WithTimeout(ctx, constants.ImagePullTimeoutSec*time.Second)
	defer cancel()
	if err := r.engine.EnsureImage(pullCtx, cfg.Image); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pkgerrors.ErrImagePull, cfg.Image, err)
	}

	sessionID := uuid.NewString()
	containerCfg := &container.Config{
		Image:      cfg.Image,
		Cmd:        []string{"sleep", "infinity"},
		WorkingDir: constants.SandboxWorkspacePath,
	}
	hostCfg := buildHostConfig(artifactPath, cfg)

	containerID, err := r.engine.CreateContainer(ctx, containerCfg, hostCfg, sanitizeContainerName(sessionID))
	if err != nil {
		return nil, fmt.Errorf("%w: create: %v", pkgerrors.ErrSandboxProvision, err)
	}

	if err := r.engine.StartContainer(ctx, containerID); err != nil {
		r.removeContainer(containerID)
		return nil, fmt.Errorf("%w: start: %v", pkgerrors.ErrSandboxProvision, err)
	}

	session := &Session{
		ID:                sessionID,
		ContainerID:       containerID,
		Config:            cfg,
		ArtifactMountPath: constants.SandboxArtifactMountPath,
		StartedAt:         time.Now(),
	}
	r.logger.Infof("Created sandbox session %s (container %s)", sessionID, containerID[:min(12, len(containerID))])
	return session, nil
}

// Execute runs one command inside the session. On timeout the process is
// killed, the exit code is 124 and partial output is preserved. An OOM
// kill (exit 137 with the engine flag set) is reported as data, not as an
// error.
func (r *sandboxRuntime) Execute(ctx context.Context, session *Session, cmd Command) (Result, error) {
	if session.destroyed.Load() {
		return Result{}, pkgerrors.ErrSessionDestroyed
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	timeoutSec := cmd.TimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = session.Config.TimeoutSeconds
	}
	cwd := cmd.Cwd
	if cwd == "" {
		cwd = constants.SandboxWorkspacePath
	}

	// The in-container coreutils timeout enforces the limit and yields
	// exit 124; the context deadline is the backstop when the image lacks
	// coreutils or the wrapper itself hangs.
	argv := append([]string{
		"timeout",
		"-k", strconv.Itoa(constants.SandboxCommandGraceSeconds),
		strconv.Itoa(timeoutSec),
		cmd.Command,
	}, cmd.Args...)

	execCtx, cancel := context.WithTimeout(ctx,
		time.Duration(timeoutSec+2*constants.SandboxCommandGraceSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	outcome, err := r.engine.Exec(execCtx, session.ContainerID, argv, cwd)
	duration := time.Since(start)
	if err != nil {
		return Result{}, fmt.Errorf("exec %s: %w", cmd.Command, err)
	}

	result := Result{
		ExitCode:   outcome.ExitCode,
		Stdout:     truncateOutput(outcome.Stdout),
		Stderr:     truncateOutput(outcome.Stderr),
		DurationMs: duration.Milliseconds(),
		TimedOut:   outcome.TimedOut || outcome.ExitCode == constants.ExitCodeTimeout,
	}
	if result.TimedOut {
		result.ExitCode = constants.ExitCodeTimeout
	}

	if outcome.ExitCode == constants.ExitCodeOOMKilled {
		oomCtx, oomCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer oomCancel()
		oom, inspectErr := r.engine.OOMKilled(oomCtx, session.ContainerID)
		if inspectErr != nil {
			r.logger.Warnf("Failed to inspect OOM state for session %s: %s", session.ID, inspectErr)
		}
		result.OOMKilled = oom
	}

	return result, nil
}

// Destroy force-removes the session's container. It is safe to call more
// than once; only the first call performs the removal.
func (r *sandboxRuntime) Destroy(session *Session) error {
	if session == nil {
		return nil
	}
	if !session.destroyed.CompareAndSwap(false, true) {
		return nil
	}
	r.logger.Infof("Destroying sandbox session %s", session.ID)
	return r.removeContainer(session.ContainerID)
}

func (r *sandboxRuntime) CopyIn(ctx context.Context, session *Session, srcDir, dstPath string) error {
	if session.destroyed.Load() {
		return pkgerrors.ErrSessionDestroyed
	}
	tarStream, err := archive.TarDirectory(srcDir)
	if err != nil {
		return err
	}
	defer tarStream.Close()
	return r.engine.CopyTo(ctx, session.ContainerID, dstPath, tarStream)
}

func (r *sandboxRuntime) CopyOut(ctx context.Context, session *Session, srcPath string) (io.ReadCloser, error) {
	if session.destroyed.Load() {
		return nil, pkgerrors.ErrSessionDestroyed
	}
	return r.engine.CopyFrom(ctx, session.ContainerID, srcPath)
}

func (r *sandboxRuntime) removeContainer(containerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.SandboxDestroyTimeoutSec*time.Second)
	defer cancel()
	if err := r.engine.RemoveContainer(ctx, containerID); err != nil {
		r.logger.Errorf("Failed to remove container %s: %s", containerID, err)
		return err
	}
	return nil
}

func buildHostConfig(artifactPath string, cfg Config) *container.HostConfig {
	networkMode := container.NetworkMode("none")
	if cfg.NetworkEnabled {
		networkMode = container.NetworkMode("bridge")
	}

	pidsLimit := constants.SandboxPidsLimit

	return &container.HostConfig{
		AutoRemove:     false,
		NetworkMode:    networkMode,
		ReadonlyRootfs: true,
		Binds: []string{
			artifactPath + ":" + constants.SandboxArtifactMountPath + ":ro",
		},
		Tmpfs: map[string]string{
			constants.SandboxWorkspacePath: fmt.Sprintf("rw,size=%d", constants.SandboxWorkspaceSizeBytes),
		},
		Resources: container.Resources{
			// Swap equal to memory disables it, keeping the limit exact.
			Memory:     cfg.MemoryLimitBytes,
			MemorySwap: cfg.MemoryLimitBytes,
			PidsLimit:  &pidsLimit,
			CPUPeriod:  100_000,
			CPUQuota:   int64(cfg.CPULimit * 100_000),
		},
		SecurityOpt:  []string{"no-new-privileges"},
		CgroupnsMode: container.CgroupnsModePrivate,
		IpcMode:      container.IpcMode("private"),
		CapDrop:      []string{"ALL"},
	}
}

// truncateOutput bounds captured output before it is persisted.
func truncateOutput(out []byte) string {
	if len(out) > constants.MaxCapturedOutputBytes {
		out = out[:constants.MaxCapturedOutputBytes]
	}
	return string(out)
}

func sanitizeContainerName(raw string) string {
	cleaned := containerNameRegex.ReplaceAllString(raw, "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return "judge-" + cleaned
}
