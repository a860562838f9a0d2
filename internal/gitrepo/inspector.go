package gitrepo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	notRepositoryMessageConstant          = "not a git repository"
	openRepositoryErrorTemplateConstant   = "%w: %s"
	worktreeErrorTemplateConstant         = "unable to open worktree for %s: %w"
	statusErrorTemplateConstant           = "unable to read status for %s: %w"
	headErrorTemplateConstant             = "unable to resolve HEAD for %s: %w"
	configurationErrorTemplateConstant    = "unable to read configuration for %s: %w"
	scopeResolutionErrorTemplateConstant  = "unable to resolve scope %s: %w"
	currentDirectoryRelativePathConstant  = "."
	parentDirectoryRelativePrefixConstant = ".."
)

// ErrNotRepository indicates the inspected directory is not inside a Git working tree.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// RepositoryState summarizes the repository an invocation operates on.
type RepositoryState struct {
	RootPath           string
	BranchName         string
	Detached           bool
	PendingChangeCount int
	RemoteName         string
	RemoteURL          string
	RemoteLocation     RemoteLocation
}

// InspectionRequest selects what the Inspector reports on.
type InspectionRequest struct {
	WorkingDirectory string
	ScopePath        string
	RemoteName       string
}

// Inspector reads repository metadata with go-git.
type Inspector struct{}

// NewInspector constructs an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect opens the repository containing the working directory and summarizes it.
// An empty RemoteName falls back to the upstream remote configured for the current branch.
func (inspector *Inspector) Inspect(request InspectionRequest) (RepositoryState, error) {
	repository, openError := git.PlainOpenWithOptions(request.WorkingDirectory, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return RepositoryState{}, fmt.Errorf(openRepositoryErrorTemplateConstant, ErrNotRepository, request.WorkingDirectory)
		}
		return RepositoryState{}, openError
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return RepositoryState{}, fmt.Errorf(worktreeErrorTemplateConstant, request.WorkingDirectory, worktreeError)
	}

	repositoryState := RepositoryState{RootPath: worktree.Filesystem.Root()}

	branchName, detached, headError := resolveHead(repository)
	if headError != nil {
		return RepositoryState{}, fmt.Errorf(headErrorTemplateConstant, repositoryState.RootPath, headError)
	}
	repositoryState.BranchName = branchName
	repositoryState.Detached = detached

	scopePrefix, scopeError := resolveScopePrefix(repositoryState.RootPath, request.WorkingDirectory, request.ScopePath)
	if scopeError != nil {
		return RepositoryState{}, fmt.Errorf(scopeResolutionErrorTemplateConstant, request.ScopePath, scopeError)
	}

	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return RepositoryState{}, fmt.Errorf(statusErrorTemplateConstant, repositoryState.RootPath, statusError)
	}
	for filePath, fileStatus := range worktreeStatus {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		if withinScope(filePath, scopePrefix) {
			repositoryState.PendingChangeCount++
		}
	}

	remoteName := strings.TrimSpace(request.RemoteName)
	if len(remoteName) == 0 && !detached {
		repositoryConfiguration, configurationError := repository.Config()
		if configurationError != nil {
			return RepositoryState{}, fmt.Errorf(configurationErrorTemplateConstant, repositoryState.RootPath, configurationError)
		}
		if branchConfiguration, branchConfigured := repositoryConfiguration.Branches[branchName]; branchConfigured {
			remoteName = branchConfiguration.Remote
		}
	}
	if len(remoteName) == 0 {
		return repositoryState, nil
	}

	repositoryState.RemoteName = remoteName
	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		if errors.Is(remoteError, git.ErrRemoteNotFound) {
			return repositoryState, nil
		}
		return RepositoryState{}, remoteError
	}
	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return repositoryState, nil
	}
	repositoryState.RemoteURL = remoteURLs[0]
	if location, parseError := ParseRemoteURL(remoteURLs[0]); parseError == nil {
		repositoryState.RemoteLocation = location
	}

	return repositoryState, nil
}

func resolveHead(repository *git.Repository) (string, bool, error) {
	headReference, headError := repository.Head()
	if headError == nil {
		if headReference.Name().IsBranch() {
			return headReference.Name().Short(), false, nil
		}
		return headReference.Hash().String(), true, nil
	}
	if !errors.Is(headError, plumbing.ErrReferenceNotFound) {
		return "", false, headError
	}

	// unborn branch: HEAD is symbolic but its target has no commits yet
	symbolicHead, symbolicError := repository.Storer.Reference(plumbing.HEAD)
	if symbolicError != nil {
		return "", false, symbolicError
	}
	return symbolicHead.Target().Short(), false, nil
}

// resolveScopePrefix returns the scope as a slash separated path relative to the repository root; empty means the whole tree.
func resolveScopePrefix(rootPath string, workingDirectory string, scopePath string) (string, error) {
	absoluteScope, absoluteError := filepath.Abs(filepath.Join(workingDirectory, scopePath))
	if absoluteError != nil {
		return "", absoluteError
	}
	resolvedRoot := evaluateSymlinks(rootPath)
	resolvedScope := evaluateSymlinks(absoluteScope)

	relativeScope, relativeError := filepath.Rel(resolvedRoot, resolvedScope)
	if relativeError != nil {
		return "", relativeError
	}
	if relativeScope == currentDirectoryRelativePathConstant {
		return "", nil
	}
	if relativeScope == parentDirectoryRelativePrefixConstant || strings.HasPrefix(relativeScope, parentDirectoryRelativePrefixConstant+string(filepath.Separator)) {
		return "", ErrNotRepository
	}
	return filepath.ToSlash(relativeScope), nil
}

func evaluateSymlinks(path string) string {
	resolvedPath, resolveError := filepath.EvalSymlinks(path)
	if resolveError != nil {
		return filepath.Clean(path)
	}
	return resolvedPath
}

func withinScope(filePath string, scopePrefix string) bool {
	if len(scopePrefix) == 0 {
		return true
	}
	return filePath == scopePrefix || strings.HasPrefix(filePath, scopePrefix+"/")
}
