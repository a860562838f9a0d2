// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with lifecycle logging and turns non-zero
// exit codes into CommandFailedError values that still carry the captured
// output. OSCommandRunner is the default os/exec backed runner and can copy
// subprocess output to the terminal while capturing it.
package execshell
