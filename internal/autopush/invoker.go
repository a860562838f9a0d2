package autopush

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/autopush/internal/execshell"
)

const (
	gitAddSubcommandConstant          = "add"
	gitAddAllFlagConstant             = "--all"
	gitPathSeparatorArgumentConstant  = "--"
	gitCommitSubcommandConstant       = "commit"
	gitCommitMessageFlagConstant      = "-m"
	gitPushSubcommandConstant         = "push"
	gitHeadReferenceConstant          = "HEAD"
	gitRefspecSeparatorConstant       = ":"
	defaultRemoteNameConstant         = "origin"
	gitLocaleEnvironmentNameConstant  = "LC_ALL"
	gitLocaleEnvironmentValueConstant = "C"
	gitExecutorMissingMessageConstant = "git executor not configured"
	toolNotStartedExitCodeConstant    = -1
	upstreamTargetLabelConstant       = "upstream"
	pushTargetLabelSeparatorConstant  = " "
)

var nothingToCommitMarkers = []string{
	"nothing to commit",
	"nothing added to commit",
	"no changes added to commit",
}

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor runs git with the provided details.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// StepResult captures the exit status and output of one git invocation.
type StepResult struct {
	ExitCode        int
	StandardOutput  string
	StandardError   string
	NothingToCommit bool
}

// CombinedOutput joins standard output and standard error.
func (result StepResult) CombinedOutput() string {
	return result.StandardOutput + result.StandardError
}

// PushTarget names the remote and branch receiving the push; both may be empty.
type PushTarget struct {
	RemoteName string
	BranchName string
}

// Arguments returns the git push arguments for the target.
func (target PushTarget) Arguments() []string {
	remoteName := strings.TrimSpace(target.RemoteName)
	branchName := strings.TrimSpace(target.BranchName)
	if len(branchName) > 0 && len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}
	if len(remoteName) == 0 {
		return []string{gitPushSubcommandConstant}
	}
	if len(branchName) == 0 {
		return []string{gitPushSubcommandConstant, remoteName, gitHeadReferenceConstant}
	}
	return []string{gitPushSubcommandConstant, remoteName, gitHeadReferenceConstant + gitRefspecSeparatorConstant + branchName}
}

func (target PushTarget) String() string {
	arguments := target.Arguments()
	if len(arguments) == 1 {
		return upstreamTargetLabelConstant
	}
	return strings.Join(arguments[1:], pushTargetLabelSeparatorConstant)
}

// VCSInvoker performs the stage, commit, and push steps.
// Every method returns a non-nil error for a failed step together with the captured result.
type VCSInvoker interface {
	Stage(executionContext context.Context, workingDirectory string, scope Scope) (StepResult, error)
	Commit(executionContext context.Context, workingDirectory string, message string) (StepResult, error)
	Push(executionContext context.Context, workingDirectory string, target PushTarget) (StepResult, error)
}

// GitInvoker implements VCSInvoker by shelling out to git.
type GitInvoker struct {
	executor GitExecutor
}

// NewGitInvoker constructs a GitInvoker.
func NewGitInvoker(executor GitExecutor) (*GitInvoker, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GitInvoker{executor: executor}, nil
}

// Stage runs git add for the entire tree or the scope's subdirectory.
func (invoker *GitInvoker) Stage(executionContext context.Context, workingDirectory string, scope Scope) (StepResult, error) {
	arguments := []string{gitAddSubcommandConstant, gitAddAllFlagConstant}
	if !scope.IsAll() {
		arguments = append(arguments, gitPathSeparatorArgumentConstant, scope.Path())
	}
	return invoker.run(executionContext, workingDirectory, arguments)
}

// Commit runs git commit. A refusal because nothing is staged is reported as NothingToCommit with a nil error.
func (invoker *GitInvoker) Commit(executionContext context.Context, workingDirectory string, message string) (StepResult, error) {
	stepResult, commitError := invoker.run(executionContext, workingDirectory, []string{gitCommitSubcommandConstant, gitCommitMessageFlagConstant, message})
	if commitError != nil && stepResult.ExitCode > 0 && reportsNothingToCommit(stepResult.CombinedOutput()) {
		stepResult.NothingToCommit = true
		return stepResult, nil
	}
	return stepResult, commitError
}

// Push runs git push toward the target.
func (invoker *GitInvoker) Push(executionContext context.Context, workingDirectory string, target PushTarget) (StepResult, error) {
	return invoker.run(executionContext, workingDirectory, target.Arguments())
}

func (invoker *GitInvoker) run(executionContext context.Context, workingDirectory string, arguments []string) (StepResult, error) {
	executionResult, executionError := invoker.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{gitLocaleEnvironmentNameConstant: gitLocaleEnvironmentValueConstant},
	})
	if executionError == nil {
		return newStepResult(executionResult), nil
	}

	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		return newStepResult(failedError.Result), executionError
	}
	return StepResult{ExitCode: toolNotStartedExitCodeConstant}, executionError
}

func newStepResult(executionResult execshell.ExecutionResult) StepResult {
	return StepResult{
		ExitCode:       executionResult.ExitCode,
		StandardOutput: executionResult.StandardOutput,
		StandardError:  executionResult.StandardError,
	}
}

func reportsNothingToCommit(output string) bool {
	normalizedOutput := strings.ToLower(output)
	for _, marker := range nothingToCommitMarkers {
		if strings.Contains(normalizedOutput, marker) {
			return true
		}
	}
	return false
}
