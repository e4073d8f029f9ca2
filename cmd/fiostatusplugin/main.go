// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/blackbird/fio-status/logger"
	"github.com/blackbird/fio-status/pkg/buildinfo"
	"github.com/blackbird/fio-status/pkg/executable"
	"github.com/blackbird/fio-status/plugin/fio.d/agent"
	"github.com/blackbird/fio-status/plugin/fio.d/cli"
	_ "github.com/blackbird/fio-status/plugin/fio.d/collector"
)

var (
	cd, _       = os.Getwd()
	fioConfig   = os.Getenv("FIO_STATUS_CONFIG_DIR")
	fioLogLevel = os.Getenv("FIO_STATUS_LOG_LEVEL")
)

func confDir(opts *cli.Option) []string {
	if len(opts.ConfDir) > 0 {
		return opts.ConfDir
	}

	if fioConfig != "" {
		return []string{fioConfig}
	}

	return []string{
		filepath.Join(cd, "/../../../../etc/fio.d"),
		filepath.Join(cd, "/../../../../usr/lib/fio.d"),
		"/etc/fio.d",
		"/usr/lib/fio.d",
		filepath.Join(executable.Directory, "/../config/fio.d"),
	}
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s.plugin, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if fioLogLevel != "" {
		logger.Level.SetByName(fioLogLevel)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	a := agent.New(agent.Config{
		Name:           executable.Name,
		ConfDir:        confDir(opts),
		LockDir:        opts.LockDir,
		QueueSize:      opts.QueueSize,
		MinUpdateEvery: opts.UpdateEvery,
	})

	a.Infof("plugin: name=%s, version=%s", a.Name, buildinfo.Version)
	if u, err := user.Current(); err == nil {
		a.Debugf("current user: name=%s, uid=%s", u.Username, u.Uid)
	}
	a.Infof("config dirs: %v", a.ConfDir)

	if opts.Once {
		if err := a.RunOnce(context.Background()); err != nil {
			a.Error(err)
			os.Exit(1)
		}
		return
	}

	a.Run()
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}
