// SPDX-License-Identifier: GPL-3.0-or-later

package sudoexec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()

	writeExe := func(path, body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o755), "write %s", path)
	}

	echoArgs := filepath.Join(tmp, "echoargs.sh")
	writeExe(echoArgs, `#!/bin/sh
printf '%s|' "$@"
echo
`)

	partial := filepath.Join(tmp, "partial.sh")
	writeExe(partial, `#!/bin/sh
printf '{"version":"3.2.1"}'
echo 'some devices are missing' 1>&2
exit 2
`)

	longErr := filepath.Join(tmp, "longerr.sh")
	writeExe(longErr, `#!/bin/sh
printf '`+strings.Repeat("x", 9000)+`' 1>&2
exit 17
`)

	sleeper := filepath.Join(tmp, "sleep.sh")
	writeExe(sleeper, `#!/bin/sh
exec sleep "$1"
`)

	// Fake privilege wrapper: drops the "-n" flag and execs the target.
	wrapper := filepath.Join(tmp, "sudo.sh")
	writeExe(wrapper, `#!/bin/sh
[ "$1" = "-n" ] || exit 99
shift
exec "$@"
`)

	tests := map[string]struct {
		sudoPath string
		binPath  string
		args     []string
		timeout  time.Duration
		wantOut  string
		check    func(t *testing.T, out []byte, err error)
	}{
		"direct": {
			binPath: echoArgs,
			args:    []string{"-aU", "-fj"},
			timeout: time.Second,
			wantOut: "-aU|-fj|\n",
		},
		"through wrapper": {
			sudoPath: wrapper,
			binPath:  echoArgs,
			args:     []string{"-aU", "-fj"},
			timeout:  time.Second,
			wantOut:  "-aU|-fj|\n",
		},
		"non-zero exit keeps stdout": {
			binPath: partial,
			timeout: time.Second,
			check: func(t *testing.T, out []byte, err error) {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, 2, exitErr.Code)
				assert.Equal(t, "some devices are missing", exitErr.Stderr)
				assert.Equal(t, `{"version":"3.2.1"}`, string(out))
			},
		},
		"stderr is trimmed": {
			binPath: longErr,
			timeout: 5 * time.Second,
			check: func(t *testing.T, _ []byte, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "truncated")
			},
		},
		"context deadline": {
			binPath: sleeper,
			args:    []string{"2"},
			timeout: 200 * time.Millisecond,
			check: func(t *testing.T, out []byte, err error) {
				assert.ErrorIs(t, err, context.DeadlineExceeded)
				assert.Nil(t, out)
			},
		},
		"binary missing": {
			binPath: filepath.Join(tmp, "missing", "fio-status"),
			timeout: time.Second,
			check: func(t *testing.T, out []byte, err error) {
				require.Error(t, err)
				var exitErr *ExitError
				assert.False(t, errors.As(err, &exitErr))
				assert.Contains(t, strings.ToLower(err.Error()), "no such file")
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), test.timeout)
			defer cancel()

			out, err := Run(ctx, nil, test.sudoPath, test.binPath, test.args...)

			if test.check != nil {
				test.check(t, out, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantOut, string(out))
		})
	}
}

func TestCommand(t *testing.T) {
	tests := map[string]struct {
		sudoPath string
		wantArgs []string
	}{
		"with wrapper": {
			sudoPath: "/usr/bin/sudo",
			wantArgs: []string{"/usr/bin/sudo", "-n", "/usr/bin/fio-status", "-aU", "-fj"},
		},
		"without wrapper": {
			wantArgs: []string{"/usr/bin/fio-status", "-aU", "-fj"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := Command(context.Background(), test.sudoPath, "/usr/bin/fio-status", "-aU", "-fj")

			assert.Equal(t, test.wantArgs, cmd.Args)
		})
	}
}

func TestLookPath(t *testing.T) {
	path, err := LookPath("")
	assert.NoError(t, err)
	assert.Empty(t, path)

	_, err = LookPath("definitely-not-a-sudo-binary-12345")
	assert.Error(t, err)
}
