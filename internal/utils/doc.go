// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging, along with the
// context accessor carrying per-invocation values.
package utils
