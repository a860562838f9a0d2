package autopush

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/autopush/internal/execshell"
	"github.com/temirov/autopush/internal/filesystem"
	"github.com/temirov/autopush/internal/gitrepo"
	"github.com/temirov/autopush/internal/ui"
	"github.com/temirov/autopush/internal/utils"
	pathutils "github.com/temirov/autopush/internal/utils/path"
)

const (
	commandUseConstant                = "autopush"
	commandShortDescriptionConstant   = "Stage, commit, and push a working tree with a date-stamped message"
	commandLongDescriptionConstant    = "autopush stages every change in the working tree or in one subdirectory, commits it with a date-stamped message, and pushes the result. Exit codes: 0 success or nothing to commit, 1 staging failure, 2 commit failure, 3 push failure."
	scopeFlagNameConstant             = "scope"
	scopeFlagUsageConstant            = "Subdirectory to stage, or \"all\" for the entire working tree."
	messagePrefixFlagNameConstant     = "message-prefix"
	messagePrefixFlagUsageConstant    = "Text placed before the date in the commit message."
	dateFormatFlagNameConstant        = "date-format"
	dateFormatFlagDescriptionConstant = "Date layout used in the commit message."
	repositoryFlagNameConstant        = "repository"
	repositoryFlagUsageConstant       = "Working directory of the repository to push."
	remoteFlagNameConstant            = "remote"
	remoteFlagUsageConstant           = "Remote receiving the push (defaults to the branch upstream)."
	branchFlagNameConstant            = "branch"
	branchFlagUsageConstant           = "Remote branch receiving the push (defaults to the current branch)."
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the loaded command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the autopush command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           GitExecutor
	RepositoryInspector   RepositoryInspector
	FileSystem            FileSystem
	Clock                 Clock
}

// Build constructs the autopush command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(scopeFlagNameConstant, defaults.Scope, scopeFlagUsageConstant)
	command.Flags().String(messagePrefixFlagNameConstant, defaults.MessagePrefix, messagePrefixFlagUsageConstant)
	command.Flags().String(dateFormatFlagNameConstant, string(defaults.DateFormat), DateFormatUsage(defaults.DateFormat, dateFormatFlagDescriptionConstant))
	command.Flags().String(repositoryFlagNameConstant, defaults.RepositoryPath, repositoryFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, defaults.RemoteName, remoteFlagUsageConstant)
	command.Flags().String(branchFlagNameConstant, defaults.BranchName, branchFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	dateFormat, dateFormatError := ParseDateFormat(string(configuration.DateFormat))
	if dateFormatError != nil {
		return dateFormatError
	}

	logger := builder.resolveLogger()

	gitExecutor, executorError := builder.resolveGitExecutor(command, logger)
	if executorError != nil {
		return executorError
	}
	invoker, invokerError := NewGitInvoker(gitExecutor)
	if invokerError != nil {
		return invokerError
	}

	service, serviceError := NewService(Dependencies{
		Invoker:    invoker,
		FileSystem: builder.resolveFileSystem(),
		Reporter:   ui.NewStatusReporter(command.OutOrStdout()),
		Clock:      builder.Clock,
		Inspector:  builder.resolveRepositoryInspector(),
		Logger:     logger,
	})
	if serviceError != nil {
		return serviceError
	}

	workingDirectory, workingDirectoryError := pathutils.NewRepositoryPathResolver().Resolve(configuration.RepositoryPath)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	runResult := service.Run(command.Context(), Options{
		WorkingDirectory: workingDirectory,
		Scope:            configuration.Scope,
		MessagePrefix:    configuration.MessagePrefix,
		DateFormat:       dateFormat,
		RemoteName:       configuration.RemoteName,
		BranchName:       configuration.BranchName,
		RunIdentifier:    builder.resolveRunIdentifier(command),
	})

	return runResult.Err()
}

// resolveConfiguration applies explicitly set flags over the loaded configuration.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagTargets := []struct {
		flagName string
		target   *string
	}{
		{flagName: scopeFlagNameConstant, target: &configuration.Scope},
		{flagName: messagePrefixFlagNameConstant, target: &configuration.MessagePrefix},
		{flagName: repositoryFlagNameConstant, target: &configuration.RepositoryPath},
		{flagName: remoteFlagNameConstant, target: &configuration.RemoteName},
		{flagName: branchFlagNameConstant, target: &configuration.BranchName},
	}
	for _, flagTarget := range flagTargets {
		if !command.Flags().Changed(flagTarget.flagName) {
			continue
		}
		flagValue, flagError := command.Flags().GetString(flagTarget.flagName)
		if flagError != nil {
			return CommandConfiguration{}, flagError
		}
		*flagTarget.target = flagValue
	}

	if command.Flags().Changed(dateFormatFlagNameConstant) {
		dateFormatValue, dateFormatError := command.Flags().GetString(dateFormatFlagNameConstant)
		if dateFormatError != nil {
			return CommandConfiguration{}, dateFormatError
		}
		configuration.DateFormat = DateFormat(dateFormatValue)
	}

	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveGitExecutor(command *cobra.Command, logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	commandRunner := execshell.NewOSCommandRunnerWithPassthrough(command.OutOrStdout(), command.ErrOrStderr())
	return execshell.NewShellExecutor(logger, commandRunner)
}

func (builder *CommandBuilder) resolveRepositoryInspector() RepositoryInspector {
	if builder.RepositoryInspector != nil {
		return builder.RepositoryInspector
	}
	return gitrepo.NewInspector()
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.OSFileSystem{}
}

func (builder *CommandBuilder) resolveRunIdentifier(command *cobra.Command) string {
	if runIdentifier, available := utils.NewCommandContextAccessor().RunIdentifier(command.Context()); available {
		return runIdentifier
	}
	return uuid.NewString()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
