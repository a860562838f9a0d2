package autopush

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/autopush/internal/gitrepo"
)

const (
	invokerMissingMessageConstant       = "vcs invoker not configured"
	fileSystemMissingMessageConstant    = "file system not configured"
	reporterMissingMessageConstant      = "status reporter not configured"
	stagedLabelConstant                 = "STAGED"
	committedLabelConstant              = "COMMITTED"
	nothingToCommitLabelConstant        = "NOTHING TO COMMIT"
	pushedLabelConstant                 = "PUSHED"
	failedLabelConstant                 = "FAILED"
	failedStageDetailTemplateConstant   = "%s (exit code %d)"
	runStartedMessageConstant           = "autopush run started"
	runCompletedMessageConstant         = "autopush run completed"
	runFailedMessageConstant            = "autopush run failed"
	repositoryInspectedMessageConstant  = "repository inspected"
	repositoryInspectionSkippedConstant = "repository inspection skipped"
	logFieldRunIdentifierConstant       = "run_id"
	logFieldWorkingDirectoryConstant    = "working_directory"
	logFieldScopeConstant               = "scope"
	logFieldCommitMessageConstant       = "commit_message"
	logFieldPushTargetConstant          = "push_target"
	logFieldStatusConstant              = "status"
	logFieldStageConstant               = "stage"
	logFieldToolExitCodeConstant        = "tool_exit_code"
	logFieldOutputConstant              = "output"
	logFieldRepositoryRootConstant      = "repository_root"
	logFieldBranchConstant              = "branch"
	logFieldDetachedConstant            = "detached"
	logFieldPendingChangesConstant      = "pending_changes"
	logFieldRemoteConstant              = "remote"
	logFieldRemoteLocationConstant      = "remote_location"
)

// ErrInvokerNotConfigured indicates the VCS invoker dependency was missing.
var ErrInvokerNotConfigured = errors.New(invokerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the file system dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrReporterNotConfigured indicates the status reporter dependency was missing.
var ErrReporterNotConfigured = errors.New(reporterMissingMessageConstant)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// StatusReporter receives one line per completed stage and the closing banner.
type StatusReporter interface {
	ReportStage(label string, detail string)
	ReportBanner(succeeded bool, detail string)
}

// RepositoryInspector summarizes the repository before staging.
type RepositoryInspector interface {
	Inspect(request gitrepo.InspectionRequest) (gitrepo.RepositoryState, error)
}

// Dependencies enumerates external collaborators required by the Service.
// Clock, Inspector, and Logger are optional.
type Dependencies struct {
	Invoker    VCSInvoker
	FileSystem FileSystem
	Reporter   StatusReporter
	Clock      Clock
	Inspector  RepositoryInspector
	Logger     *zap.Logger
}

// Options configures a single run.
type Options struct {
	WorkingDirectory string
	Scope            string
	MessagePrefix    string
	DateFormat       DateFormat
	RemoteName       string
	BranchName       string
	RunIdentifier    string
}

// Service runs the stage, commit, and push sequence.
type Service struct {
	invoker    VCSInvoker
	fileSystem FileSystem
	reporter   StatusReporter
	clock      Clock
	inspector  RepositoryInspector
	logger     *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Invoker == nil {
		return nil, ErrInvokerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		invoker:    dependencies.Invoker,
		fileSystem: dependencies.FileSystem,
		reporter:   dependencies.Reporter,
		clock:      clock,
		inspector:  dependencies.Inspector,
		logger:     logger,
	}, nil
}

// Run validates the scope, then stages, commits, and pushes in order.
// A commit refused because nothing is staged does not stop the push; any other failure ends the run.
func (service *Service) Run(executionContext context.Context, options Options) RunResult {
	logger := service.logger.With(zap.String(logFieldRunIdentifierConstant, options.RunIdentifier))
	result := RunResult{RunIdentifier: options.RunIdentifier}

	scope, scopeError := ResolveScope(service.fileSystem, options.WorkingDirectory, options.Scope)
	if scopeError != nil {
		return service.fail(logger, result, StageNameStage, StepResult{ExitCode: toolNotStartedExitCodeConstant}, scopeError)
	}
	result.Scope = scope

	workingDirectory, absError := service.fileSystem.Abs(strings.TrimSpace(options.WorkingDirectory))
	if absError != nil {
		return service.fail(logger, result, StageNameStage, StepResult{ExitCode: toolNotStartedExitCodeConstant}, absError)
	}

	commitMessage := MessageBuilder{Prefix: options.MessagePrefix, DateFormat: options.DateFormat}.Build(scope, service.clock.Now())
	result.CommitMessage = commitMessage
	pushTarget := PushTarget{RemoteName: options.RemoteName, BranchName: options.BranchName}

	logger.Info(runStartedMessageConstant,
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
		zap.String(logFieldScopeConstant, scope.String()),
		zap.String(logFieldCommitMessageConstant, commitMessage),
		zap.String(logFieldPushTargetConstant, pushTarget.String()),
	)
	service.inspectRepository(logger, workingDirectory, scope, pushTarget)

	stageResult, stageError := service.invoker.Stage(executionContext, workingDirectory, scope)
	if stageError != nil {
		return service.fail(logger, result, StageNameStage, stageResult, stageError)
	}
	service.reporter.ReportStage(stagedLabelConstant, scope.String())

	status := RunStatusSuccess
	commitResult, commitError := service.invoker.Commit(executionContext, workingDirectory, commitMessage)
	if commitError != nil {
		return service.fail(logger, result, StageNameCommit, commitResult, commitError)
	}
	if commitResult.NothingToCommit {
		status = RunStatusNothingToCommit
		service.reporter.ReportStage(nothingToCommitLabelConstant, scope.String())
	} else {
		service.reporter.ReportStage(committedLabelConstant, commitMessage)
	}

	pushResult, pushError := service.invoker.Push(executionContext, workingDirectory, pushTarget)
	if pushError != nil {
		return service.fail(logger, result, StageNamePush, pushResult, pushError)
	}
	service.reporter.ReportStage(pushedLabelConstant, pushTarget.String())

	result.Status = status
	service.reporter.ReportBanner(true, "")
	logger.Info(runCompletedMessageConstant, zap.String(logFieldStatusConstant, status.String()))
	return result
}

func (service *Service) fail(logger *zap.Logger, result RunResult, stage StageName, stepResult StepResult, cause error) RunResult {
	stageError := &StageError{
		Stage:        stage,
		ToolExitCode: stepResult.ExitCode,
		Output:       stepResult.CombinedOutput(),
		Cause:        cause,
	}
	result.Status = RunStatusFailed
	result.Failure = stageError

	logger.Error(runFailedMessageConstant,
		zap.String(logFieldStageConstant, string(stage)),
		zap.Int(logFieldToolExitCodeConstant, stepResult.ExitCode),
		zap.String(logFieldOutputConstant, strings.TrimSpace(stageError.Output)),
		zap.Error(cause),
	)
	service.reporter.ReportStage(failedLabelConstant, fmt.Sprintf(failedStageDetailTemplateConstant, stage, stepResult.ExitCode))
	service.reporter.ReportBanner(false, stageError.Error())
	return result
}

func (service *Service) inspectRepository(logger *zap.Logger, workingDirectory string, scope Scope, pushTarget PushTarget) {
	if service.inspector == nil {
		return
	}
	remoteName := strings.TrimSpace(pushTarget.RemoteName)
	if len(remoteName) == 0 && len(strings.TrimSpace(pushTarget.BranchName)) > 0 {
		remoteName = defaultRemoteNameConstant
	}
	repositoryState, inspectionError := service.inspector.Inspect(gitrepo.InspectionRequest{
		WorkingDirectory: workingDirectory,
		ScopePath:        scope.Path(),
		RemoteName:       remoteName,
	})
	if inspectionError != nil {
		logger.Debug(repositoryInspectionSkippedConstant, zap.Error(inspectionError))
		return
	}
	logger.Info(repositoryInspectedMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryState.RootPath),
		zap.String(logFieldBranchConstant, repositoryState.BranchName),
		zap.Bool(logFieldDetachedConstant, repositoryState.Detached),
		zap.Int(logFieldPendingChangesConstant, repositoryState.PendingChangeCount),
		zap.String(logFieldRemoteConstant, repositoryState.RemoteName),
		zap.String(logFieldRemoteLocationConstant, repositoryState.RemoteLocation.String()),
	)
}
