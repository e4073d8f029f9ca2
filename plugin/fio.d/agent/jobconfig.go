// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// jobConfig is one entry of the module configuration file 'jobs' list.
// Options the agent does not know about are passed to the module as is.
type jobConfig map[string]any

func (c jobConfig) Name() string            { v, _ := c.get("name").(string); return v }
func (c jobConfig) Module() string          { v, _ := c.get("module").(string); return v }
func (c jobConfig) Hostname() string        { v, _ := c.get("hostname").(string); return v }
func (c jobConfig) UpdateEvery() int        { v, _ := c.get("update_every").(int); return v }
func (c jobConfig) LLDInterval() int        { v, _ := c.get("lld_interval").(int); return v }
func (c jobConfig) AutoDetectionRetry() int { v, _ := c.get("autodetection_retry").(int); return v }

func (c jobConfig) FullName() string {
	if c.Name() == c.Module() {
		return c.Name()
	}
	return c.Module() + "_" + c.Name()
}

func (c jobConfig) get(key string) any {
	if c == nil {
		return nil
	}
	return c[key]
}

func (c jobConfig) set(key string, value any) { c[key] = value }

func (c jobConfig) setIfNotSet(key string, value any) {
	if _, ok := c[key]; !ok {
		c[key] = value
	}
}

func (c jobConfig) validate() error {
	if c.Name() == "" {
		return fmt.Errorf("'name' not set")
	}
	if v := c.UpdateEvery(); v < 1 {
		return fmt.Errorf("'update_every' must be >= 1, got %d", v)
	}
	if v := c.LLDInterval(); v < 1 {
		return fmt.Errorf("'lld_interval' must be >= 1, got %d", v)
	}
	if v := c.AutoDetectionRetry(); v < 0 {
		return fmt.Errorf("'autodetection_retry' must not be negative, got %d", v)
	}
	return nil
}

// applyConfig sets the module fields from the job options.
func applyConfig(cfg jobConfig, module any) error {
	bs, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bs, module)
}
