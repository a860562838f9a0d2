// Package gitrepo inspects Git repositories in-process using go-git.
//
// Inspector reports the repository root, the checked out branch, the pending
// change count for a scope, and the push destination. The results are
// informational; staging, committing, and pushing still run through the git
// executable.
package gitrepo
