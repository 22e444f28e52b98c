// Package executor runs an accepted command through the user's shell with
// the terminal's standard streams attached.
package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Execute runs command through the user's shell, inheriting stdin, stdout
// and stderr. The returned error wraps *exec.ExitError when the child ran
// but exited non-zero.
func Execute(command string) error {
	return ExecuteWithDebug(command, false)
}

// ExecuteWithDebug is Execute with [DEBUG] diagnostics on stderr.
func ExecuteWithDebug(command string, debug bool) error {
	shell, args := shellCommand(command)
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] executor: running %q via %s\n", command, shell)
	}

	cmd := exec.Command(shell, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] executor: command failed with exit code %d\n", ExitCode(err))
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// shellCommand picks the shell and argument form for this platform.
func shellCommand(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c", command}
}

// ExitCode extracts the child's exit status from an Execute error, falling
// back to 1 when the command never produced one.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
