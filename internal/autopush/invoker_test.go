package autopush_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/autopush/internal/autopush"
	"github.com/temirov/autopush/internal/execshell"
)

const (
	testWorkingDirectoryConstant = "/workspace/reports"
	testCommitMessageConstant    = "update on 2024-06-01"
)

type scriptedResponse struct {
	result execshell.ExecutionResult
	err    error
}

// recordingGitExecutor replays responses keyed by git subcommand and records every invocation.
type recordingGitExecutor struct {
	responses       map[string]scriptedResponse
	recordedDetails []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if len(details.Arguments) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	response, exists := executor.responses[details.Arguments[0]]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	return response.result, response.err
}

func (executor *recordingGitExecutor) subcommands() []string {
	subcommands := make([]string, 0, len(executor.recordedDetails))
	for _, details := range executor.recordedDetails {
		subcommands = append(subcommands, details.Arguments[0])
	}
	return subcommands
}

func failedResponse(arguments []string, result execshell.ExecutionResult) scriptedResponse {
	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}}
	return scriptedResponse{err: execshell.CommandFailedError{Command: command, Result: result}}
}

func TestNewGitInvokerRequiresExecutor(testInstance *testing.T) {
	invoker, creationError := autopush.NewGitInvoker(nil)
	require.Nil(testInstance, invoker)
	require.ErrorIs(testInstance, creationError, autopush.ErrGitExecutorNotConfigured)
}

func TestGitInvokerStageArguments(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	inputScope := resolveInputScope(testInstance, workingDirectory)

	testCases := []struct {
		name              string
		scope             autopush.Scope
		expectedArguments []string
	}{
		{name: "entire_tree", scope: autopush.AllScope(), expectedArguments: []string{"add", "--all"}},
		{name: "subdirectory", scope: inputScope, expectedArguments: []string{"add", "--all", "--", "input"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{}
			invoker, creationError := autopush.NewGitInvoker(executor)
			require.NoError(testInstance, creationError)

			stepResult, stageError := invoker.Stage(context.Background(), testWorkingDirectoryConstant, testCase.scope)
			require.NoError(testInstance, stageError)
			require.Equal(testInstance, 0, stepResult.ExitCode)

			require.Len(testInstance, executor.recordedDetails, 1)
			recordedDetails := executor.recordedDetails[0]
			require.Equal(testInstance, testCase.expectedArguments, recordedDetails.Arguments)
			require.Equal(testInstance, testWorkingDirectoryConstant, recordedDetails.WorkingDirectory)
			require.Equal(testInstance, "C", recordedDetails.EnvironmentVariables["LC_ALL"])
		})
	}
}

func TestGitInvokerCommitClassification(testInstance *testing.T) {
	commitArguments := []string{"commit", "-m", testCommitMessageConstant}

	testCases := []struct {
		name                  string
		response              scriptedResponse
		expectError           bool
		expectNothingToCommit bool
		expectedExitCode      int
	}{
		{
			name:             "commit_created",
			response:         scriptedResponse{result: execshell.ExecutionResult{StandardOutput: "[main 1a2b3c4] update on 2024-06-01\n"}},
			expectedExitCode: 0,
		},
		{
			name:                  "nothing_to_commit_clean_tree",
			response:              failedResponse(commitArguments, execshell.ExecutionResult{StandardOutput: "On branch main\nnothing to commit, working tree clean\n", ExitCode: 1}),
			expectNothingToCommit: true,
			expectedExitCode:      1,
		},
		{
			name:                  "nothing_added_untracked_present",
			response:              failedResponse(commitArguments, execshell.ExecutionResult{StandardOutput: "nothing added to commit but untracked files present\n", ExitCode: 1}),
			expectNothingToCommit: true,
			expectedExitCode:      1,
		},
		{
			name:                  "no_changes_added_outside_scope",
			response:              failedResponse(commitArguments, execshell.ExecutionResult{StandardOutput: "no changes added to commit (use \"git add\" and/or \"git commit -a\")\n", ExitCode: 1}),
			expectNothingToCommit: true,
			expectedExitCode:      1,
		},
		{
			name:             "hook_rejection",
			response:         failedResponse(commitArguments, execshell.ExecutionResult{StandardError: "pre-commit hook failed\n", ExitCode: 1}),
			expectError:      true,
			expectedExitCode: 1,
		},
		{
			name:             "missing_identity",
			response:         failedResponse(commitArguments, execshell.ExecutionResult{StandardError: "Please tell me who you are.\n", ExitCode: 128}),
			expectError:      true,
			expectedExitCode: 128,
		},
		{
			name:             "tool_not_started",
			response:         scriptedResponse{err: execshell.CommandExecutionError{Cause: errors.New("executable file not found in $PATH")}},
			expectError:      true,
			expectedExitCode: -1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{responses: map[string]scriptedResponse{"commit": testCase.response}}
			invoker, creationError := autopush.NewGitInvoker(executor)
			require.NoError(testInstance, creationError)

			stepResult, commitError := invoker.Commit(context.Background(), testWorkingDirectoryConstant, testCommitMessageConstant)
			if testCase.expectError {
				require.Error(testInstance, commitError)
			} else {
				require.NoError(testInstance, commitError)
			}
			require.Equal(testInstance, testCase.expectNothingToCommit, stepResult.NothingToCommit)
			require.Equal(testInstance, testCase.expectedExitCode, stepResult.ExitCode)
			require.Equal(testInstance, commitArguments, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestGitInvokerPushArguments(testInstance *testing.T) {
	testCases := []struct {
		name              string
		target            autopush.PushTarget
		expectedArguments []string
		expectedLabel     string
	}{
		{name: "upstream", target: autopush.PushTarget{}, expectedArguments: []string{"push"}, expectedLabel: "upstream"},
		{name: "remote_only", target: autopush.PushTarget{RemoteName: "backup"}, expectedArguments: []string{"push", "backup", "HEAD"}, expectedLabel: "backup HEAD"},
		{name: "remote_and_branch", target: autopush.PushTarget{RemoteName: "backup", BranchName: "main"}, expectedArguments: []string{"push", "backup", "HEAD:main"}, expectedLabel: "backup HEAD:main"},
		{name: "branch_only_uses_origin", target: autopush.PushTarget{BranchName: " main "}, expectedArguments: []string{"push", "origin", "HEAD:main"}, expectedLabel: "origin HEAD:main"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{}
			invoker, creationError := autopush.NewGitInvoker(executor)
			require.NoError(testInstance, creationError)

			_, pushError := invoker.Push(context.Background(), testWorkingDirectoryConstant, testCase.target)
			require.NoError(testInstance, pushError)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, testCase.expectedLabel, testCase.target.String())
		})
	}
}

func TestGitInvokerPushFailurePreservesExitCode(testInstance *testing.T) {
	rejection := execshell.ExecutionResult{StandardError: " ! [rejected]        main -> main (fetch first)\n", ExitCode: 1}
	executor := &recordingGitExecutor{responses: map[string]scriptedResponse{"push": failedResponse([]string{"push"}, rejection)}}
	invoker, creationError := autopush.NewGitInvoker(executor)
	require.NoError(testInstance, creationError)

	stepResult, pushError := invoker.Push(context.Background(), testWorkingDirectoryConstant, autopush.PushTarget{})

	var failedError execshell.CommandFailedError
	require.True(testInstance, errors.As(pushError, &failedError))
	require.Equal(testInstance, 1, stepResult.ExitCode)
	require.Contains(testInstance, stepResult.CombinedOutput(), "rejected")
}
