// Package autopush stages, commits, and pushes a working tree in one pass.
//
// ResolveScope validates the configured scope, MessageBuilder produces the
// date-stamped commit message, GitInvoker runs git add, commit, and push, and
// Service sequences the three stages into a RunResult whose ExitCode maps the
// failed stage to a process exit status.
package autopush
