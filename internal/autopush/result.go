package autopush

import "fmt"

const (
	stageErrorTemplateConstant             = "%s failed (exit code %d): %v"
	stageErrorWithoutCauseTemplateConstant = "%s failed (exit code %d)"
	runStatusSuccessLabelConstant          = "success"
	runStatusNothingLabelConstant          = "nothing to commit"
	runStatusFailedLabelConstant           = "failed"
	runStatusUnknownLabelConstant          = "unknown"
)

// Process exit codes reported for each outcome.
const (
	ExitCodeSuccess       = 0
	ExitCodeStageFailure  = 1
	ExitCodeCommitFailure = 2
	ExitCodePushFailure   = 3
)

// StageName identifies one step of a run.
type StageName string

// Run stages in execution order.
const (
	StageNameStage  StageName = "stage"
	StageNameCommit StageName = "commit"
	StageNamePush   StageName = "push"
)

// RunStatus is the terminal outcome of a run.
type RunStatus int

// Terminal outcomes.
const (
	RunStatusSuccess RunStatus = iota
	RunStatusNothingToCommit
	RunStatusFailed
)

func (status RunStatus) String() string {
	switch status {
	case RunStatusSuccess:
		return runStatusSuccessLabelConstant
	case RunStatusNothingToCommit:
		return runStatusNothingLabelConstant
	case RunStatusFailed:
		return runStatusFailedLabelConstant
	default:
		return runStatusUnknownLabelConstant
	}
}

// StageError reports the stage that stopped a run along with the tool's exit code and captured output.
type StageError struct {
	Stage        StageName
	ToolExitCode int
	Output       string
	Cause        error
}

// Error describes the failed stage.
func (stageError *StageError) Error() string {
	if stageError.Cause == nil {
		return fmt.Sprintf(stageErrorWithoutCauseTemplateConstant, stageError.Stage, stageError.ToolExitCode)
	}
	return fmt.Sprintf(stageErrorTemplateConstant, stageError.Stage, stageError.ToolExitCode, stageError.Cause)
}

// Unwrap exposes the underlying cause.
func (stageError *StageError) Unwrap() error {
	return stageError.Cause
}

// ExitCode maps the failed stage to the process exit code.
func (stageError *StageError) ExitCode() int {
	switch stageError.Stage {
	case StageNameCommit:
		return ExitCodeCommitFailure
	case StageNamePush:
		return ExitCodePushFailure
	default:
		return ExitCodeStageFailure
	}
}

// RunResult summarizes a completed run.
type RunResult struct {
	Status        RunStatus
	Scope         Scope
	CommitMessage string
	RunIdentifier string
	Failure       *StageError
}

// FailedStage returns the stage that failed, or an empty name for successful runs.
func (result RunResult) FailedStage() StageName {
	if result.Failure == nil {
		return ""
	}
	return result.Failure.Stage
}

// ToolExitCode returns the exit code of the failed git invocation, or zero for successful runs.
func (result RunResult) ToolExitCode() int {
	if result.Failure == nil {
		return ExitCodeSuccess
	}
	return result.Failure.ToolExitCode
}

// Err returns the failure as an error, or nil for Success and NothingToCommit.
func (result RunResult) Err() error {
	if result.Failure == nil {
		return nil
	}
	return result.Failure
}

// ExitCode returns the process exit code for the run.
func (result RunResult) ExitCode() int {
	if result.Failure == nil {
		return ExitCodeSuccess
	}
	return result.Failure.ExitCode()
}
