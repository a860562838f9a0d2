package autopush_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/autopush/internal/autopush"
	"github.com/temirov/autopush/internal/execshell"
	"github.com/temirov/autopush/internal/filesystem"
	"github.com/temirov/autopush/internal/gitrepo"
)

const testRunIdentifierConstant = "3f7c1c1e-0000-4000-8000-000000000001"

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	invoker, invokerError := autopush.NewGitInvoker(&recordingGitExecutor{})
	require.NoError(testInstance, invokerError)

	testCases := []struct {
		name          string
		dependencies  autopush.Dependencies
		expectedError error
	}{
		{
			name:          "missing_invoker",
			dependencies:  autopush.Dependencies{FileSystem: filesystem.OSFileSystem{}, Reporter: &recordingReporter{}},
			expectedError: autopush.ErrInvokerNotConfigured,
		},
		{
			name:          "missing_file_system",
			dependencies:  autopush.Dependencies{Invoker: invoker, Reporter: &recordingReporter{}},
			expectedError: autopush.ErrFileSystemNotConfigured,
		},
		{
			name:          "missing_reporter",
			dependencies:  autopush.Dependencies{Invoker: invoker, FileSystem: filesystem.OSFileSystem{}},
			expectedError: autopush.ErrReporterNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := autopush.NewService(testCase.dependencies)
			require.Nil(testInstance, service)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}

func TestServiceRunOutcomes(testInstance *testing.T) {
	nothingToCommit := execshell.ExecutionResult{StandardOutput: "nothing to commit, working tree clean\n", ExitCode: 1}
	pushRejected := execshell.ExecutionResult{StandardError: " ! [rejected]        main -> main (fetch first)\n", ExitCode: 1}
	stageFailure := execshell.ExecutionResult{StandardError: "fatal: Unable to create '.git/index.lock': File exists.\n", ExitCode: 128}
	commitFailure := execshell.ExecutionResult{StandardError: "pre-commit hook failed\n", ExitCode: 1}

	testCases := []struct {
		name                string
		scope               string
		responses           map[string]scriptedResponse
		expectedStatus      autopush.RunStatus
		expectedStage       autopush.StageName
		expectedToolExit    int
		expectedExitCode    int
		expectedSubcommands []string
		expectedMessage     string
		expectedLines       []string
		expectedCause       error
	}{
		{
			name:                "all_scope_success",
			scope:               "all",
			expectedStatus:      autopush.RunStatusSuccess,
			expectedExitCode:    0,
			expectedSubcommands: []string{"add", "commit", "push"},
			expectedMessage:     "update on 2024-06-01",
			expectedLines:       []string{"STAGED: all", "COMMITTED: update on 2024-06-01", "PUSHED: upstream", "SUCCESS"},
		},
		{
			name:  "subdirectory_nothing_to_commit_still_pushes",
			scope: "input/",
			responses: map[string]scriptedResponse{
				"commit": failedResponse([]string{"commit"}, nothingToCommit),
			},
			expectedStatus:      autopush.RunStatusNothingToCommit,
			expectedExitCode:    0,
			expectedSubcommands: []string{"add", "commit", "push"},
			expectedMessage:     "update input on 2024-06-01",
			expectedLines:       []string{"STAGED: input", "NOTHING TO COMMIT: input", "PUSHED: upstream", "SUCCESS"},
		},
		{
			name:  "push_rejected",
			scope: "all",
			responses: map[string]scriptedResponse{
				"push": failedResponse([]string{"push"}, pushRejected),
			},
			expectedStatus:      autopush.RunStatusFailed,
			expectedStage:       autopush.StageNamePush,
			expectedToolExit:    1,
			expectedExitCode:    3,
			expectedSubcommands: []string{"add", "commit", "push"},
			expectedMessage:     "update on 2024-06-01",
		},
		{
			name:  "nothing_to_commit_then_push_rejected",
			scope: "all",
			responses: map[string]scriptedResponse{
				"commit": failedResponse([]string{"commit"}, nothingToCommit),
				"push":   failedResponse([]string{"push"}, pushRejected),
			},
			expectedStatus:      autopush.RunStatusFailed,
			expectedStage:       autopush.StageNamePush,
			expectedToolExit:    1,
			expectedExitCode:    3,
			expectedSubcommands: []string{"add", "commit", "push"},
			expectedMessage:     "update on 2024-06-01",
		},
		{
			name:  "stage_failure_short_circuits",
			scope: "all",
			responses: map[string]scriptedResponse{
				"add": failedResponse([]string{"add"}, stageFailure),
			},
			expectedStatus:      autopush.RunStatusFailed,
			expectedStage:       autopush.StageNameStage,
			expectedToolExit:    128,
			expectedExitCode:    1,
			expectedSubcommands: []string{"add"},
			expectedMessage:     "update on 2024-06-01",
			expectedLines:       []string{"FAILED: stage (exit code 128)"},
		},
		{
			name:  "commit_failure_short_circuits",
			scope: "all",
			responses: map[string]scriptedResponse{
				"commit": failedResponse([]string{"commit"}, commitFailure),
			},
			expectedStatus:      autopush.RunStatusFailed,
			expectedStage:       autopush.StageNameCommit,
			expectedToolExit:    1,
			expectedExitCode:    2,
			expectedSubcommands: []string{"add", "commit"},
			expectedMessage:     "update on 2024-06-01",
		},
		{
			name:  "missing_git_binary",
			scope: "all",
			responses: map[string]scriptedResponse{
				"add": {err: execshell.CommandExecutionError{Cause: errors.New("executable file not found in $PATH")}},
			},
			expectedStatus:      autopush.RunStatusFailed,
			expectedStage:       autopush.StageNameStage,
			expectedToolExit:    -1,
			expectedExitCode:    1,
			expectedSubcommands: []string{"add"},
			expectedMessage:     "update on 2024-06-01",
		},
		{
			name:             "missing_scope_never_invokes_git",
			scope:            "output",
			expectedStatus:   autopush.RunStatusFailed,
			expectedStage:    autopush.StageNameStage,
			expectedToolExit: -1,
			expectedExitCode: 1,
			expectedCause:    autopush.ErrPathNotFound,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workingDirectory := testInstance.TempDir()
			createInputDirectory(testInstance, workingDirectory)

			executor := &recordingGitExecutor{responses: testCase.responses}
			invoker, invokerError := autopush.NewGitInvoker(executor)
			require.NoError(testInstance, invokerError)
			reporter := &recordingReporter{}

			service, serviceError := autopush.NewService(autopush.Dependencies{
				Invoker:    invoker,
				FileSystem: filesystem.OSFileSystem{},
				Reporter:   reporter,
				Clock:      fixedClock{now: testFixedTime},
			})
			require.NoError(testInstance, serviceError)

			runResult := service.Run(context.Background(), autopush.Options{
				WorkingDirectory: workingDirectory,
				Scope:            testCase.scope,
				MessagePrefix:    "update",
				DateFormat:       autopush.DateFormatISO,
				RunIdentifier:    testRunIdentifierConstant,
			})

			require.Equal(testInstance, testCase.expectedStatus, runResult.Status)
			require.Equal(testInstance, testCase.expectedStage, runResult.FailedStage())
			require.Equal(testInstance, testCase.expectedToolExit, runResult.ToolExitCode())
			require.Equal(testInstance, testCase.expectedExitCode, runResult.ExitCode())
			require.Equal(testInstance, testCase.expectedMessage, runResult.CommitMessage)
			require.Equal(testInstance, testRunIdentifierConstant, runResult.RunIdentifier)
			require.Equal(testInstance, testCase.expectedSubcommands, emptyIfNil(executor.subcommands()))

			if testCase.expectedStatus == autopush.RunStatusFailed {
				require.Error(testInstance, runResult.Err())
				var stageError *autopush.StageError
				require.True(testInstance, errors.As(runResult.Err(), &stageError))
				require.Equal(testInstance, testCase.expectedExitCode, stageError.ExitCode())
				require.Contains(testInstance, reporter.lines[len(reporter.lines)-1], "FAILED")
			} else {
				require.NoError(testInstance, runResult.Err())
			}
			if testCase.expectedCause != nil {
				require.ErrorIs(testInstance, runResult.Err(), testCase.expectedCause)
			}
			if testCase.expectedLines != nil {
				require.Subset(testInstance, reporter.lines, testCase.expectedLines)
			}
			for _, recordedDetails := range executor.recordedDetails {
				require.Equal(testInstance, workingDirectory, recordedDetails.WorkingDirectory)
			}
		})
	}
}

func TestServiceRunLogsRunIdentifierAndInspection(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	createInputDirectory(testInstance, workingDirectory)

	observerCore, observerLogs := observer.New(zap.DebugLevel)
	inspector := &stubInspector{state: gitrepo.RepositoryState{RootPath: workingDirectory, BranchName: "main", PendingChangeCount: 2, RemoteName: "origin"}}
	invoker, invokerError := autopush.NewGitInvoker(&recordingGitExecutor{})
	require.NoError(testInstance, invokerError)

	service, serviceError := autopush.NewService(autopush.Dependencies{
		Invoker:    invoker,
		FileSystem: filesystem.OSFileSystem{},
		Reporter:   &recordingReporter{},
		Clock:      fixedClock{now: testFixedTime},
		Inspector:  inspector,
		Logger:     zap.New(observerCore),
	})
	require.NoError(testInstance, serviceError)

	runResult := service.Run(context.Background(), autopush.Options{
		WorkingDirectory: workingDirectory,
		Scope:            "input",
		DateFormat:       autopush.DateFormatCompact,
		BranchName:       "main",
		RunIdentifier:    testRunIdentifierConstant,
	})
	require.NoError(testInstance, runResult.Err())
	require.Equal(testInstance, "update input on 20240601", runResult.CommitMessage)

	require.Len(testInstance, inspector.requests, 1)
	require.Equal(testInstance, "input", inspector.requests[0].ScopePath)
	require.Equal(testInstance, "origin", inspector.requests[0].RemoteName)

	inspectedEntries := observerLogs.FilterMessage("repository inspected").All()
	require.Len(testInstance, inspectedEntries, 1)
	require.Equal(testInstance, int64(2), inspectedEntries[0].ContextMap()["pending_changes"])

	for _, entry := range observerLogs.All() {
		require.Equal(testInstance, testRunIdentifierConstant, entry.ContextMap()["run_id"])
	}
}

func TestServiceRunIgnoresInspectionFailures(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	inspector := &stubInspector{err: gitrepo.ErrNotRepository}
	executor := &recordingGitExecutor{}
	invoker, invokerError := autopush.NewGitInvoker(executor)
	require.NoError(testInstance, invokerError)

	service, serviceError := autopush.NewService(autopush.Dependencies{
		Invoker:    invoker,
		FileSystem: filesystem.OSFileSystem{},
		Reporter:   &recordingReporter{},
		Inspector:  inspector,
		Logger:     zap.New(observerCore),
	})
	require.NoError(testInstance, serviceError)

	runResult := service.Run(context.Background(), autopush.Options{WorkingDirectory: workingDirectory, RunIdentifier: testRunIdentifierConstant})

	require.Equal(testInstance, autopush.RunStatusSuccess, runResult.Status)
	require.Len(testInstance, executor.recordedDetails, 3)
	skippedEntries := observerLogs.FilterMessage("repository inspection skipped").All()
	require.Len(testInstance, skippedEntries, 1)
	require.Equal(testInstance, zap.DebugLevel, skippedEntries[0].Level)
}

func emptyIfNil(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
