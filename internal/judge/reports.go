package judge

import (
	"archive/tar"
	"context"
	"io"
	"path"
	"strings"

	"github.com/codearena/judge-worker/internal/sandbox"
	"github.com/codearena/judge-worker/internal/scoring"
	"github.com/codearena/judge-worker/pkg/constants"
)

const reportsDir = constants.SandboxWorkspacePath + "/reports"

// maxReportBytes bounds how much of a single report file is read; reports
// beyond this are almost certainly garbage output, not test results.
const maxReportBytes = 4 * 1024 * 1024

// collectReports copies the conventional reports directory out of the
// sandbox and parses whatever test, coverage and lint reports it finds.
// A missing directory or malformed report degrades to empty evidence.
func (o *orchestrator) collectReports(ctx context.Context, session *sandbox.Session) scoring.Evidence {
	var ev scoring.Evidence

	reader, err := o.sandbox.CopyOut(ctx, session, reportsDir)
	if err != nil {
		o.logger.Debugf("No reports directory in session %s: %s", session.ID, err)
		return ev
	}
	defer reader.Close()

	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			o.logger.Warnf("Failed to read reports archive: %s", err)
			return ev
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tarReader, maxReportBytes))
		if err != nil {
			continue
		}
		mergeReport(&ev, path.Base(header.Name), data)
	}

	return ev
}

func mergeReport(ev *scoring.Evidence, name string, data []byte) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xml"):
		mergeTestResults(&ev.Tests, scoring.ParseJUnitXML(data))
	case strings.HasSuffix(lower, ".tap"):
		mergeTestResults(&ev.Tests, scoring.ParseTAP(data))
	case strings.Contains(lower, "coverage") && strings.HasSuffix(lower, ".json"):
		report := scoring.ParseCoverageReport(data)
		ev.Coverage = &report
	case strings.Contains(lower, "lint") && strings.HasSuffix(lower, ".json"):
		report := scoring.ParseLintReport(data)
		ev.Lint = &report
	case strings.HasSuffix(lower, ".json"):
		mergeTestResults(&ev.Tests, scoring.ParseJSONReport(data))
	}
}

func mergeTestResults(dst *scoring.TestResults, src scoring.TestResults) {
	dst.Suites = append(dst.Suites, src.Suites...)
	dst.TotalTests += src.TotalTests
	dst.TotalPassed += src.TotalPassed
	dst.TotalFailed += src.TotalFailed
	dst.TotalSkipped += src.TotalSkipped
	dst.TotalErrors += src.TotalErrors
}
