package autopush

import "strings"

const (
	configurationRepositoryKeyConstant    = "repository"
	configurationScopeKeyConstant         = "scope"
	configurationMessagePrefixKeyConstant = "message_prefix"
	configurationDateFormatKeyConstant    = "date_format"
	configurationRemoteKeyConstant        = "remote"
	configurationBranchKeyConstant        = "branch"
	configurationKeySeparatorConstant     = "."
	defaultRepositoryPathConstant         = "."
)

// CommandConfiguration captures persisted settings for a run.
type CommandConfiguration struct {
	RepositoryPath string     `mapstructure:"repository"`
	Scope          string     `mapstructure:"scope"`
	MessagePrefix  string     `mapstructure:"message_prefix"`
	DateFormat     DateFormat `mapstructure:"date_format"`
	RemoteName     string     `mapstructure:"remote"`
	BranchName     string     `mapstructure:"branch"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath: defaultRepositoryPathConstant,
		Scope:          allScopeValueConstant,
		MessagePrefix:  defaultMessagePrefixConstant,
		DateFormat:     DateFormatISO,
		RemoteName:     "",
		BranchName:     "",
	}
}

// DefaultConfigurationValues returns the defaults keyed for the configuration loader under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationRepositoryKeyConstant:    defaults.RepositoryPath,
		rootKey + configurationKeySeparatorConstant + configurationScopeKeyConstant:         defaults.Scope,
		rootKey + configurationKeySeparatorConstant + configurationMessagePrefixKeyConstant: defaults.MessagePrefix,
		rootKey + configurationKeySeparatorConstant + configurationDateFormatKeyConstant:    string(defaults.DateFormat),
		rootKey + configurationKeySeparatorConstant + configurationRemoteKeyConstant:        defaults.RemoteName,
		rootKey + configurationKeySeparatorConstant + configurationBranchKeyConstant:        defaults.BranchName,
	}
}

// Sanitize trims values and restores defaults for empty repository, scope, prefix, and date format.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		RepositoryPath: strings.TrimSpace(configuration.RepositoryPath),
		Scope:          strings.TrimSpace(configuration.Scope),
		MessagePrefix:  strings.TrimSpace(configuration.MessagePrefix),
		DateFormat:     DateFormat(strings.ToLower(strings.TrimSpace(string(configuration.DateFormat)))),
		RemoteName:     strings.TrimSpace(configuration.RemoteName),
		BranchName:     strings.TrimSpace(configuration.BranchName),
	}
	if len(sanitized.RepositoryPath) == 0 {
		sanitized.RepositoryPath = defaults.RepositoryPath
	}
	if len(sanitized.Scope) == 0 {
		sanitized.Scope = defaults.Scope
	}
	if len(sanitized.MessagePrefix) == 0 {
		sanitized.MessagePrefix = defaults.MessagePrefix
	}
	if len(sanitized.DateFormat) == 0 {
		sanitized.DateFormat = defaults.DateFormat
	}
	return sanitized
}
