// Package shell executes the user-approved command.
package shell

import (
	"errors"
	"os"
	"os/exec"
)

// Run executes command through a login shell in the current working
// directory, wired to the caller's stdio. It returns the command's exit code
// and, for nonzero exits or spawn failures, an error describing the outcome.
func Run(command string) (int, error) {
	cmd := exec.Command("bash", "-lc", command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}
	// The shell could not be started at all.
	return 1, err
}
