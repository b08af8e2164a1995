package render

import (
	"bufio"
	"context"
	"errors"
	"os/exec"
)

// Runner executes an external toolchain command in a working directory and
// streams its combined output one line at a time. Both render drivers speak
// to their subprocess (renderer or coding agent) through this interface so
// tests can substitute a fake.
type Runner interface {
	// Run blocks until the command exits and returns its exit code. A
	// nonzero exit code is not an error; err is reserved for failures to
	// start or stream the process.
	Run(ctx context.Context, dir, name string, args []string, onLine func(string)) (int, error)
}

// ExecRunner runs commands with os/exec, merging stderr into stdout so the
// drivers see renderer progress lines in order.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args []string, onLine func(string)) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, err
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
