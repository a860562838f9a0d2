package autopush

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	allScopeValueConstant                   = "all"
	currentDirectoryScopeValueConstant      = "."
	parentDirectoryPrefixConstant           = ".."
	pathNotFoundMessageConstant             = "path not found"
	scopeOutsideRepositoryMessageConstant   = "scope is outside the working directory"
	workingDirectoryRequiredMessageConstant = "working directory must be provided"
	scopeErrorTemplateConstant              = "%w: %s"
	scopeInspectionErrorTemplateConstant    = "unable to inspect %s: %w"
)

// ErrPathNotFound indicates the working directory or the configured scope does not exist.
var ErrPathNotFound = errors.New(pathNotFoundMessageConstant)

// ErrScopeOutsideRepository indicates the configured scope resolves outside the working directory.
var ErrScopeOutsideRepository = errors.New(scopeOutsideRepositoryMessageConstant)

// ErrWorkingDirectoryRequired indicates the working directory option was empty.
var ErrWorkingDirectoryRequired = errors.New(workingDirectoryRequiredMessageConstant)

// FileSystem exposes the path lookups needed to validate a scope.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// Scope selects the paths included in a commit: the entire working tree or one subdirectory.
type Scope struct {
	relativePath string
}

// AllScope selects the entire working tree.
func AllScope() Scope {
	return Scope{}
}

// IsAll reports whether the scope covers the entire working tree.
func (scope Scope) IsAll() bool {
	return len(scope.relativePath) == 0
}

// Path returns the subdirectory relative to the working directory, or an empty string for the entire tree.
func (scope Scope) Path() string {
	return scope.relativePath
}

// Label returns the slash separated subdirectory without a trailing slash.
func (scope Scope) Label() string {
	return filepath.ToSlash(scope.relativePath)
}

func (scope Scope) String() string {
	if scope.IsAll() {
		return allScopeValueConstant
	}
	return scope.Label()
}

// ResolveScope validates the configured scope value against the working directory.
// Empty, "all", and "." select the entire tree; any other value must name an existing path inside the working directory.
func ResolveScope(fileSystem FileSystem, workingDirectory string, value string) (Scope, error) {
	trimmedWorkingDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return Scope{}, ErrWorkingDirectoryRequired
	}

	absoluteWorkingDirectory, absError := fileSystem.Abs(trimmedWorkingDirectory)
	if absError != nil {
		return Scope{}, absError
	}
	if statError := requireExistingPath(fileSystem, absoluteWorkingDirectory); statError != nil {
		return Scope{}, statError
	}

	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 || strings.EqualFold(trimmedValue, allScopeValueConstant) || trimmedValue == currentDirectoryScopeValueConstant {
		return AllScope(), nil
	}

	candidatePath := trimmedValue
	if !filepath.IsAbs(candidatePath) {
		candidatePath = filepath.Join(absoluteWorkingDirectory, candidatePath)
	}
	candidatePath = filepath.Clean(candidatePath)

	relativePath, relativeError := filepath.Rel(absoluteWorkingDirectory, candidatePath)
	if relativeError != nil {
		return Scope{}, fmt.Errorf(scopeErrorTemplateConstant, ErrScopeOutsideRepository, trimmedValue)
	}
	if relativePath == parentDirectoryPrefixConstant || strings.HasPrefix(relativePath, parentDirectoryPrefixConstant+string(filepath.Separator)) {
		return Scope{}, fmt.Errorf(scopeErrorTemplateConstant, ErrScopeOutsideRepository, trimmedValue)
	}

	if statError := requireExistingPath(fileSystem, candidatePath); statError != nil {
		return Scope{}, statError
	}

	if relativePath == currentDirectoryScopeValueConstant {
		return AllScope(), nil
	}
	return Scope{relativePath: relativePath}, nil
}

func requireExistingPath(fileSystem FileSystem, path string) error {
	_, statError := fileSystem.Stat(path)
	if statError == nil {
		return nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return fmt.Errorf(scopeErrorTemplateConstant, ErrPathNotFound, path)
	}
	return fmt.Errorf(scopeInspectionErrorTemplateConstant, path, statError)
}
