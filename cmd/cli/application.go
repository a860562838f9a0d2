package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/autopush/internal/autopush"
	"github.com/temirov/autopush/internal/utils"
	"github.com/temirov/autopush/internal/utils/flags"
)

const (
	applicationNameConstant                 = "autopush"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	logFormatFlagNameConstant               = "log-format"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant          = commonConfigurationKeyConstant + ".log_file"
	runConfigurationKeyConstant             = "run"
	environmentPrefixConstant               = "AUTOPUSH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	runIdentifierFieldConstant              = "run_id"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandBuildErrorTemplateConstant   = "unable to build root command: %w"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "autopush"
	versionTemplateConstant                 = "autopush version: {{.Version}}\n"
	developmentVersionConstant              = "dev"
	develVersionMarkerConstant              = "(devel)"
)

var (
	logLevelChoices  = flags.NewChoiceSet(string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError))
	logFormatChoices = flags.NewChoiceSet(string(utils.LogFormatStructured), string(utils.LogFormatConsole))
)

// Version is the release identifier reported by --version. Release builds set it with -ldflags.
var Version = ""

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Run    autopush.CommandConfiguration  `mapstructure:"run"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	rootCommandBuildError  error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return newApplication(autopush.CommandBuilder{})
}

func newApplication(commandBuilder autopush.CommandBuilder) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.SetDecodeHook(autopush.DateFormatDecodeHook())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	commandBuilder.LoggerProvider = func() *zap.Logger {
		return application.logger
	}
	commandBuilder.ConfigurationProvider = func() autopush.CommandConfiguration {
		return application.configuration.Run
	}

	cobraCommand, buildError := commandBuilder.Build()
	if buildError != nil {
		application.rootCommandBuildError = buildError
		cobraCommand = &cobra.Command{Use: applicationNameConstant}
	}

	cobraCommand.Version = resolveVersion()
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.SilenceUsage = true
	cobraCommand.SilenceErrors = true
	cobraCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelChoices.Usage(string(utils.LogLevelInfo), logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatChoices.Usage(string(utils.LogFormatConsole), logFormatFlagDescriptionConstant))

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command and ensures logger flushing.
func (application *Application) Execute() error {
	if application.rootCommandBuildError != nil {
		return fmt.Errorf(rootCommandBuildErrorTemplateConstant, application.rootCommandBuildError)
	}
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
		commonLogFileConfigKeyConstant:   "",
	}
	for configurationKey, configurationValue := range autopush.DefaultConfigurationValues(runConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLoggerWithFileSink(
		utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel))),
		utils.LogFormat(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogFormat))),
		strings.TrimSpace(application.configuration.Common.LogFile),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	runIdentifier := uuid.NewString()
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(runIdentifierFieldConstant, runIdentifier),
	)

	if command != nil {
		parentContext := command.Context()
		if parentContext == nil {
			parentContext = context.Background()
		}
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			parentContext,
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithRunIdentifier(updatedContext, runIdentifier)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// configurationSearchPaths lists the working directory followed by the per-user configuration directory.
func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	userConfigurationDirectory, userConfigurationError := os.UserConfigDir()
	if userConfigurationError == nil && len(userConfigurationDirectory) > 0 {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func resolveVersion() string {
	if trimmedVersion := strings.TrimSpace(Version); len(trimmedVersion) > 0 {
		return trimmedVersion
	}
	buildInformation, available := debug.ReadBuildInfo()
	if available && len(buildInformation.Main.Version) > 0 && buildInformation.Main.Version != develVersionMarkerConstant {
		return buildInformation.Main.Version
	}
	return developmentVersionConstant
}
