package judge

import (
	"fmt"
	"strings"

	"github.com/codearena/judge-worker/internal/sandbox"
)

// runLog accumulates the human-readable transcript of one judging run for
// upload to the log store.
type runLog struct {
	b strings.Builder
}

func (l *runLog) printf(format string, args ...interface{}) {
	fmt.Fprintf(&l.b, format+"\n", args...)
}

func (l *runLog) command(label string, argv []string, res sandbox.Result) {
	l.printf("--- %s: %s", label, strings.Join(argv, " "))
	l.printf("exit=%d duration=%dms timed_out=%t oom_killed=%t",
		res.ExitCode, res.DurationMs, res.TimedOut, res.OOMKilled)
	if res.Stdout != "" {
		l.printf("stdout:\n%s", res.Stdout)
	}
	if res.Stderr != "" {
		l.printf("stderr:\n%s", res.Stderr)
	}
}

func (l *runLog) Bytes() []byte {
	return []byte(l.b.String())
}
