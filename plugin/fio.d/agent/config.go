// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/blackbird/fio-status/plugin/fio.d/agent/module"
	"github.com/blackbird/fio-status/plugin/fio.d/pkg/multipath"
)

// moduleConfig is the content of '<module>.conf'. The top level options
// are defaults for every job that doesn't set them.
type moduleConfig struct {
	UpdateEvery        int         `yaml:"update_every"`
	LLDInterval        int         `yaml:"lld_interval"`
	AutoDetectionRetry int         `yaml:"autodetection_retry"`
	Jobs               []jobConfig `yaml:"jobs"`
}

func (a *Agent) loadJobConfigs(name string, creator module.Creator) ([]jobConfig, error) {
	var mc moduleConfig

	path, err := a.ConfDir.Find(name + ".conf")
	switch {
	case err == nil:
		a.Infof("loading config file '%s'", path)
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(bs, &mc); err != nil {
			return nil, fmt.Errorf("parse '%s': %v", path, err)
		}
		if len(mc.Jobs) == 0 {
			a.Infof("config file '%s' has no jobs", path)
			return nil, nil
		}
	case multipath.IsNotFound(err):
		if creator.Disabled {
			return nil, nil
		}
		a.Infof("config file '%s.conf' not found, using one job with defaults", name)
		mc.Jobs = []jobConfig{{}}
	default:
		return nil, err
	}

	updateEvery := firstPositive(mc.UpdateEvery, creator.UpdateEvery, module.UpdateEvery)
	lldInterval := firstPositive(mc.LLDInterval, creator.LLDInterval, module.LLDInterval)

	var cfgs []jobConfig
	for _, cfg := range mc.Jobs {
		if cfg == nil {
			cfg = jobConfig{}
		}
		cfg.set("module", name)
		cfg.setIfNotSet("name", name)
		cfg.setIfNotSet("update_every", updateEvery)
		cfg.setIfNotSet("lld_interval", lldInterval)
		cfg.setIfNotSet("autodetection_retry", mc.AutoDetectionRetry)

		if v := cfg.UpdateEvery(); v > 0 && v < a.MinUpdateEvery {
			cfg.set("update_every", a.MinUpdateEvery)
		}
		cfgs = append(cfgs, cfg)
	}

	return cfgs, nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
