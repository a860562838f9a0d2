package gitrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	fileProtocolPrefixConstant          = "file://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
)

// RemoteProtocol enumerates recognized git remote transports.
type RemoteProtocol string

// Recognized remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolFile  RemoteProtocol = RemoteProtocol("file")
)

// RemoteLocation is the structured form of a remote URL.
type RemoteLocation struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// String renders the location as host/owner/repository, or the repository path for local remotes.
func (location RemoteLocation) String() string {
	if location == (RemoteLocation{}) {
		return ""
	}
	if location.Protocol == RemoteProtocolFile {
		return location.Repository
	}
	return strings.Join([]string{location.Host, location.Owner, location.Repository}, pathSeparatorConstant)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote URL into a RemoteLocation.
func ParseRemoteURL(remote string) (RemoteLocation, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, fileProtocolPrefixConstant):
		return RemoteLocation{Protocol: RemoteProtocolFile, Repository: filepath.Clean(strings.TrimPrefix(trimmedRemote, fileProtocolPrefixConstant))}, nil
	case filepath.IsAbs(trimmedRemote) || strings.HasPrefix(trimmedRemote, "."):
		return RemoteLocation{Protocol: RemoteProtocolFile, Repository: filepath.Clean(trimmedRemote)}, nil
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseSSHRemote(trimmedRemote)
	}

	return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
}

func parseSSHRemote(remote string) (RemoteLocation, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	hostAndPath := remote[userSplitIndex+1:]
	var host string
	var path string
	if pathSplitIndex := strings.Index(hostAndPath, sshPathDelimiterConstant); pathSplitIndex != -1 {
		host = hostAndPath[:pathSplitIndex]
		path = hostAndPath[pathSplitIndex+1:]
	} else {
		slashIndex := strings.Index(hostAndPath, pathSeparatorConstant)
		if slashIndex == -1 {
			return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
		}
		host = hostAndPath[:slashIndex]
		path = hostAndPath[slashIndex+1:]
	}
	owner, repository, parseError := splitOwnerAndRepository(path)
	if parseError != nil {
		return RemoteLocation{}, parseError
	}
	return RemoteLocation{Protocol: RemoteProtocolSSH, Host: host, Owner: owner, Repository: repository}, nil
}

func parseHTTPSRemote(remote string) (RemoteLocation, error) {
	pathComponents := strings.Split(strings.TrimSuffix(remote, pathSeparatorConstant), pathSeparatorConstant)
	if len(pathComponents) < 3 {
		return RemoteLocation{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	host := pathComponents[0]
	if credentialIndex := strings.LastIndex(host, sshUserDelimiterConstant); credentialIndex != -1 {
		host = host[credentialIndex+1:]
	}
	owner, repository, parseError := splitOwnerAndRepository(strings.Join(pathComponents[1:], pathSeparatorConstant))
	if parseError != nil {
		return RemoteLocation{}, parseError
	}
	return RemoteLocation{Protocol: RemoteProtocolHTTPS, Host: host, Owner: owner, Repository: repository}, nil
}

// splitOwnerAndRepository treats the last segment as the repository and everything before it as the owner.
func splitOwnerAndRepository(path string) (string, string, error) {
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	separatorIndex := strings.LastIndex(trimmedPath, pathSeparatorConstant)
	if separatorIndex <= 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(trimmedPath[separatorIndex+1:], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	return trimmedPath[:separatorIndex], repository, nil
}
