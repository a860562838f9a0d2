package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant                  = "~"
	homeDirectoryUnavailableMessage      = "home directory unavailable"
	homeDirectoryErrorTemplateConstant   = "%w for %q: %v"
	undefinedEnvironmentMessageConstant  = "undefined environment variable"
	undefinedEnvironmentTemplateConstant = "%w %q in %q"
)

// ErrHomeDirectoryUnavailable indicates a "~" path when the home directory cannot be determined.
var ErrHomeDirectoryUnavailable = errors.New(homeDirectoryUnavailableMessage)

// ErrUndefinedEnvironmentVariable indicates a $VAR reference without a value.
var ErrUndefinedEnvironmentVariable = errors.New(undefinedEnvironmentMessageConstant)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup resolves environment variables.
type EnvironmentLookup func(name string) (string, bool)

// RepositoryPathResolver turns a configured repository path into a clean filesystem path.
// It expands $VAR references and a leading "~" or "~/"; "~user" forms are left untouched.
type RepositoryPathResolver struct {
	HomeDirectoryProvider HomeDirectoryProvider
	EnvironmentLookup     EnvironmentLookup
}

// NewRepositoryPathResolver constructs a resolver backed by the process environment.
func NewRepositoryPathResolver() RepositoryPathResolver {
	return RepositoryPathResolver{HomeDirectoryProvider: os.UserHomeDir, EnvironmentLookup: os.LookupEnv}
}

// Resolve expands and cleans candidatePath. An empty path stays empty.
func (resolver RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", nil
	}

	expandedPath, expansionError := resolver.expandEnvironment(trimmedPath)
	if expansionError != nil {
		return "", expansionError
	}

	expandedPath, homeError := resolver.expandHome(expandedPath)
	if homeError != nil {
		return "", homeError
	}

	return filepath.Clean(expandedPath), nil
}

func (resolver RepositoryPathResolver) expandEnvironment(candidatePath string) (string, error) {
	if !strings.Contains(candidatePath, "$") {
		return candidatePath, nil
	}
	lookup := resolver.EnvironmentLookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var undefinedName string
	expandedPath := os.Expand(candidatePath, func(name string) string {
		value, defined := lookup(name)
		if !defined && len(undefinedName) == 0 {
			undefinedName = name
		}
		return value
	})
	if len(undefinedName) > 0 {
		return "", fmt.Errorf(undefinedEnvironmentTemplateConstant, ErrUndefinedEnvironmentVariable, undefinedName, candidatePath)
	}
	return expandedPath, nil
}

func (resolver RepositoryPathResolver) expandHome(candidatePath string) (string, error) {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath, nil
	}
	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != filepath.Separator {
		return candidatePath, nil
	}

	provider := resolver.HomeDirectoryProvider
	if provider == nil {
		provider = os.UserHomeDir
	}
	homeDirectory, homeError := provider()
	if homeError == nil && len(homeDirectory) == 0 {
		homeError = os.ErrNotExist
	}
	if homeError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplateConstant, ErrHomeDirectoryUnavailable, candidatePath, homeError)
	}

	return filepath.Join(homeDirectory, remainder), nil
}
