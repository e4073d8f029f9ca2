// SPDX-License-Identifier: GPL-3.0-or-later

package sudoexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/blackbird/fio-status/logger"
)

const stderrLimit = 8 << 10 // 8 KiB

// ExitError reports a command that ran but exited with a non-zero status.
// Stdout holds whatever the command managed to write before exiting.
type ExitError struct {
	Cmd    string
	Code   int
	Stdout []byte
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("'%s' exited with code %d (stderr: %s)", e.Cmd, e.Code, e.Stderr)
}

// Command builds the command line for binPath. When sudoPath is set the binary
// is run through it in non-interactive mode, so a missing sudoers rule fails
// immediately instead of waiting for a password.
func Command(ctx context.Context, sudoPath, binPath string, args ...string) *exec.Cmd {
	if sudoPath == "" {
		return exec.CommandContext(ctx, binPath, args...)
	}
	argv := append([]string{"-n", binPath}, args...)
	return exec.CommandContext(ctx, sudoPath, argv...) // argv comes from the job config; no shell involved
}

// Run executes binPath (optionally through sudoPath) and returns its stdout.
// A process that could not be started, was killed, or was cancelled through ctx
// is returned as a plain error. A process that exited with a non-zero code is
// returned as *ExitError together with its stdout.
func Run(ctx context.Context, log *logger.Logger, sudoPath, binPath string, args ...string) ([]byte, error) {
	ex := Command(ctx, sudoPath, binPath, args...)

	log.Debugf("executing: %v", ex)

	var stderr bytes.Buffer
	ex.Stderr = &stderr

	out, err := ex.Output()
	if err == nil {
		return out, nil
	}

	s := stderr.String()
	if len(s) > stderrLimit {
		s = s[:stderrLimit] + "… (truncated)"
	}
	s = strings.TrimSpace(s)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("'%s': %w (stderr: %s)", ex, ctx.Err(), s)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		return out, &ExitError{Cmd: ex.String(), Code: exitErr.ExitCode(), Stdout: out, Stderr: s}
	}

	return nil, fmt.Errorf("'%s': %w (stderr: %s)", ex, err, s)
}

// LookPath resolves the privilege wrapper. An empty name disables the wrapper.
func LookPath(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("privilege wrapper '%s' not found: %w", name, err)
	}
	return path, nil
}
