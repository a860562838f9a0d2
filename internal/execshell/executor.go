package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant         = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant  = "shell executor command runner not configured"
	commandFailedErrorTemplateConstant         = "%s exited with code %d"
	commandFailedStandardErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant      = "%s could not be executed: %v"
	logFieldCommandNameConstant                = "command"
	logFieldArgumentsConstant                  = "arguments"
	logFieldWorkingDirectoryConstant           = "working_directory"
	logFieldExitCodeConstant                   = "exit_code"
	commandLabelSeparatorConstant              = " "
)

// CommandName identifies an external executable.
type CommandName string

// CommandGit identifies the git executable.
const CommandGit CommandName = "git"

// CommandDetails describes a single invocation of an external tool.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput joins standard output and standard error.
func (result ExecutionResult) CombinedOutput() string {
	return result.StandardOutput + result.StandardError
}

// CommandRunner runs shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates a missing logger dependency.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates a missing command runner dependency.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failedError CommandFailedError) Error() string {
	commandLabel := describeCommand(failedError.Command)
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, commandLabel, failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedStandardErrorTemplateConstant, commandLabel, failedError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started or was interrupted.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs external tools through a CommandRunner and logs their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor from its dependencies.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner, formatter: CommandMessageFormatter{}}, nil
}

// Execute runs the command. A non-zero exit code yields CommandFailedError carrying the captured result.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Info(executor.formatter.BuildStartedMessage(command), commandFields...)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(executor.formatter.BuildFailureMessage(command, executionResult), append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(executor.formatter.BuildSuccessMessage(command), commandFields...)
	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelSeparatorConstant)
}
