// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"errors"

	"github.com/blackbird/fio-status/plugin/fio.d/pkg/sudoexec"
)

func (c *Collector) validateConfig() error {
	if c.Path == "" {
		return errors.New("'path' not set")
	}
	if c.Timeout < 0 {
		return errors.New("'timeout' must not be negative")
	}
	return nil
}

func (c *Collector) initFioStatusExec() (fioStatusCli, error) {
	sudoPath, err := sudoexec.LookPath(c.Sudo)
	if err != nil {
		return nil, err
	}
	if sudoPath == "" {
		c.Debugf("running '%s' without a privilege wrapper", c.Path)
	}

	return newFioStatusExec(sudoPath, c.Path, c.Timeout.Duration(), c.Logger), nil
}
