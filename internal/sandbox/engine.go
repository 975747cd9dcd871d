package sandbox

import (
	"context"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	image "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/codearena/judge-worker/pkg/constants"
)

// ExecOutcome is the raw outcome of one in-container exec.
type ExecOutcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	TimedOut bool
}

// ContainerEngine abstracts the container daemon operations the runtime
// needs, so the sandbox contract stays independent of the docker client
// and tests can substitute a fake.
type ContainerEngine interface {
	EnsureImage(ctx context.Context, imageName string) error
	CreateContainer(
		ctx context.Context,
		containerCfg *container.Config,
		hostCfg *container.HostConfig,
		name string,
	) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	Exec(ctx context.Context, containerID string, cmd []string, workDir string) (ExecOutcome, error)
	OOMKilled(ctx context.Context, containerID string) (bool, error)
	RemoveContainer(ctx context.Context, containerID string) error
	CopyTo(ctx context.Context, containerID, dstPath string, archive io.Reader) error
	CopyFrom(ctx context.Context, containerID, srcPath string) (io.ReadCloser, error)
}

type dockerEngine struct {
	cli *client.Client
}

func NewDockerEngine() (ContainerEngine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &dockerEngine{cli: cli}, nil
}

func (e *dockerEngine) EnsureImage(ctx context.Context, imageName string) error {
	_, err := e.cli.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return err
	}

	reader, err := e.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (e *dockerEngine) CreateContainer(
	ctx context.Context,
	containerCfg *container.Config,
	hostCfg *container.HostConfig,
	name string,
) (string, error) {
	resp, err := e.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (e *dockerEngine) StartContainer(ctx context.Context, containerID string) error {
	return e.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

func (e *dockerEngine) Exec(
	ctx context.Context,
	containerID string,
	cmd []string,
	workDir string,
) (ExecOutcome, error) {
	outcome := ExecOutcome{ExitCode: -1}

	created, err := e.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		WorkingDir:   workDir,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return outcome, err
	}

	attach, err := e.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return outcome, err
	}
	defer attach.Close()

	stdout := newCappedBuffer(constants.MaxCapturedOutputBytes)
	stderr := newCappedBuffer(constants.MaxCapturedOutputBytes)
	copied := make(chan error, 1)
	go func() {
		_, copyErr := stdcopy.StdCopy(stdout, stderr, attach.Reader)
		copied <- copyErr
	}()

	select {
	case <-ctx.Done():
		// Deadline backstop: the in-container process is reaped when the
		// session is destroyed; here we only stop waiting on it.
		attach.Close()
		<-copied
		outcome.Stdout, outcome.Stderr = stdout.Bytes(), stderr.Bytes()
		outcome.TimedOut = true
		outcome.ExitCode = constants.ExitCodeTimeout
		return outcome, nil
	case <-copied:
	}

	outcome.Stdout, outcome.Stderr = stdout.Bytes(), stderr.Bytes()

	inspectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	inspect, err := e.cli.ContainerExecInspect(inspectCtx, created.ID)
	if err != nil {
		return outcome, err
	}
	outcome.ExitCode = inspect.ExitCode
	return outcome, nil
}

func (e *dockerEngine) OOMKilled(ctx context.Context, containerID string) (bool, error) {
	inspect, err := e.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		return false, err
	}
	if inspect.State == nil {
		// Engines without the flag report no OOM rather than guessing.
		return false, nil
	}
	return inspect.State.OOMKilled, nil
}

func (e *dockerEngine) RemoveContainer(ctx context.Context, containerID string) error {
	return e.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
}

func (e *dockerEngine) CopyTo(ctx context.Context, containerID, dstPath string, archive io.Reader) error {
	return e.cli.CopyToContainer(ctx, containerID, dstPath, archive, container.CopyToContainerOptions{})
}

func (e *dockerEngine) CopyFrom(ctx context.Context, containerID, srcPath string) (io.ReadCloser, error) {
	reader, _, err := e.cli.CopyFromContainer(ctx, containerID, srcPath)
	return reader, err
}

// cappedBuffer keeps the first limit bytes written and drops the rest, so
// a chatty command cannot grow persisted output without bound.
type cappedBuffer struct {
	buf   []byte
	limit int
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if remaining := b.limit - len(b.buf); remaining > 0 {
		if len(p) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf }
