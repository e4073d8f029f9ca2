// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"context"

	"github.com/blackbird/fio-status/pkg/buildinfo"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
)

func (c *Collector) collect(ctx context.Context, e *queue.Emitter) error {
	if err := c.ping(e); err != nil {
		return err
	}

	doc, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	for _, m := range flatten(doc) {
		if err := e.EmitMetric(m.Key, m.Value); err != nil {
			return err
		}
	}

	return nil
}

func (c *Collector) ping(e *queue.Emitter) error {
	if err := e.EmitMetric(keyPing, "1"); err != nil {
		return err
	}
	return e.EmitMetric(keyPluginVersion, buildinfo.Version)
}

func (c *Collector) collectDiscovery(ctx context.Context, e *queue.Emitter) error {
	doc, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	d := discover(doc)

	for _, v := range []struct {
		key     string
		entries []queue.LLDEntry
	}{
		{keyAdapterLLD, d.Adapters},
		{keyDeviceLLD, d.Devices},
		{keyVsuLLD, d.Vsus},
		{keyHostLLD, d.Hosts},
	} {
		if err := e.EmitDiscovery(v.key, v.entries); err != nil {
			return err
		}
	}

	return nil
}
