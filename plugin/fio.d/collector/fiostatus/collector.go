// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackbird/fio-status/plugin/fio.d/agent/module"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
	"github.com/blackbird/fio-status/plugin/fio.d/pkg/confopt"
)

const moduleName = "fio_status"

func init() {
	module.Register(moduleName, module.Creator{
		Defaults: module.Defaults{
			UpdateEvery: module.UpdateEvery,
			LLDInterval: module.LLDInterval,
		},
		Create: func() module.Module { return New() },
		Config: func() any { return &Config{} },
	})
}

func New() *Collector {
	return &Collector{
		Config: Config{
			Path: "/usr/bin/fio-status",
			Sudo: "sudo",
		},
	}
}

type Config struct {
	UpdateEvery int              `yaml:"update_every,omitempty" json:"update_every"`
	LLDInterval int              `yaml:"lld_interval,omitempty" json:"lld_interval"`
	Path        string           `yaml:"path" json:"path"`
	Sudo        string           `yaml:"sudo" json:"sudo"`
	Timeout     confopt.Duration `yaml:"timeout,omitempty" json:"timeout"`
}

type Collector struct {
	module.Base
	Config `yaml:",inline" json:""`

	exec fioStatusCli
}

func (c *Collector) Configuration() any {
	return c.Config
}

func (c *Collector) Init(context.Context) error {
	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("config validation: %v", err)
	}

	fioExec, err := c.initFioStatusExec()
	if err != nil {
		return fmt.Errorf("fio-status exec initialization: %v", err)
	}
	c.exec = fioExec

	return nil
}

func (c *Collector) Check(ctx context.Context) error {
	doc, err := c.fetch(ctx)
	if err != nil {
		return module.Wrap(moduleName, "check", err)
	}

	if len(doc.Adapters()) == 0 {
		c.Warning("fio-status reported no adapters")
	}

	return nil
}

// Collect emits the ping items followed by one item per report field.
func (c *Collector) Collect(ctx context.Context, e *queue.Emitter) error {
	return module.Wrap(moduleName, "collect", c.collect(ctx, e))
}

// Discover emits the adapter, device, vsu and host discovery lists.
func (c *Collector) Discover(ctx context.Context, e *queue.Emitter) error {
	return module.Wrap(moduleName, "discover", c.collectDiscovery(ctx, e))
}

func (c *Collector) Cleanup(context.Context) {}

func (c *Collector) fetch(ctx context.Context) (*Document, error) {
	if c.exec == nil {
		return nil, errors.New("fio-status exec is not initialized")
	}

	bs, err := c.exec.statusReport(ctx)
	if err != nil {
		return nil, err
	}

	return parseDocument(bs)
}
