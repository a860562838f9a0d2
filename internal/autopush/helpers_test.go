package autopush_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/autopush/internal/autopush"
	"github.com/temirov/autopush/internal/filesystem"
	"github.com/temirov/autopush/internal/gitrepo"
)

const testInputDirectoryConstant = "input"

var testFixedTime = time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

type recordingReporter struct {
	lines []string
}

func (reporter *recordingReporter) ReportStage(label string, detail string) {
	reporter.lines = append(reporter.lines, fmt.Sprintf("%s: %s", label, detail))
}

func (reporter *recordingReporter) ReportBanner(succeeded bool, detail string) {
	if succeeded {
		reporter.lines = append(reporter.lines, "SUCCESS")
		return
	}
	reporter.lines = append(reporter.lines, fmt.Sprintf("FAILED %s", detail))
}

type stubInspector struct {
	requests []gitrepo.InspectionRequest
	state    gitrepo.RepositoryState
	err      error
}

func (inspector *stubInspector) Inspect(request gitrepo.InspectionRequest) (gitrepo.RepositoryState, error) {
	inspector.requests = append(inspector.requests, request)
	return inspector.state, inspector.err
}

func createInputDirectory(testInstance *testing.T, workingDirectory string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workingDirectory, testInputDirectoryConstant), 0o755))
}

func resolveInputScope(testInstance *testing.T, workingDirectory string) autopush.Scope {
	testInstance.Helper()
	createInputDirectory(testInstance, workingDirectory)
	scope, scopeError := autopush.ResolveScope(filesystem.OSFileSystem{}, workingDirectory, testInputDirectoryConstant)
	require.NoError(testInstance, scopeError)
	return scope
}
