// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackbird/fio-status/logger"
	"github.com/blackbird/fio-status/plugin/fio.d/pkg/sudoexec"
)

// fio-status flags: all information, unavailable fields included, JSON format.
var statusArgs = []string{"-aU", "-fj"}

type fioStatusCli interface {
	statusReport(context.Context) ([]byte, error)
}

func newFioStatusExec(sudoPath, binPath string, timeout time.Duration, log *logger.Logger) *fioStatusExec {
	return &fioStatusExec{
		Logger:   log,
		sudoPath: sudoPath,
		binPath:  binPath,
		timeout:  timeout,
	}
}

type fioStatusExec struct {
	*logger.Logger

	sudoPath string
	binPath  string
	timeout  time.Duration
}

func (e *fioStatusExec) statusReport(ctx context.Context) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	bs, err := sudoexec.Run(ctx, e.Logger, e.sudoPath, e.binPath, statusArgs...)
	if err == nil {
		return bs, nil
	}

	// a non-zero exit that still printed a report is not an execution failure
	var exitErr *sudoexec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stdout) > 0 {
		e.Debugf("'%s' exited with code %d, using its output", exitErr.Cmd, exitErr.Code)
		return exitErr.Stdout, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrExecution, err)
}
