// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"fmt"
)

const (
	keyPing          = "blackbird.fio-status.ping"
	keyPluginVersion = "blackbird.fio-status.version"
	keyVersion       = "fio.status.version"
)

// Metric is one flattened value.
type Metric struct {
	Key   string
	Value string
}

// flatten turns the report into one metric per leaf field. Keys embed the
// whole identity path, so they are unique within a report as long as device
// paths don't contain commas.
func flatten(doc *Document) []Metric {
	var mx []Metric

	if v, ok := doc.Version(); ok {
		mx = append(mx, Metric{Key: keyVersion, Value: v.Text()})
	}

	for i, adapter := range doc.Adapters() {
		mx = flattenAdapter(mx, adapterName(i), adapter)
	}

	for i, host := range doc.Hosts() {
		name := hostName(i)
		for _, f := range host.Fields() {
			mx = append(mx, Metric{
				Key:   fmt.Sprintf("fio.status.host[%s,%s]", name, f.Name),
				Value: f.Value.Text(),
			})
		}
	}

	return mx
}

func flattenAdapter(mx []Metric, name string, adapter Value) []Metric {
	for _, f := range adapter.Fields() {
		// iomemory
		if f.Value.IsSequence() {
			continue
		}
		mx = append(mx, Metric{
			Key:   fmt.Sprintf("fio.status.adapter[%s,%s]", name, f.Name),
			Value: f.Value.Text(),
		})
	}

	for _, iomem := range iomemories(adapter) {
		dev := iomem.identity()

		for _, f := range iomem.Fields() {
			// device_path is the key, vsu is walked below
			if f.Name == fieldDevicePath || f.Value.IsSequence() {
				continue
			}
			mx = append(mx, Metric{
				Key:   fmt.Sprintf("fio.status.adapter.iomemory[%s,%s,%s]", name, dev, f.Name),
				Value: f.Value.Text(),
			})
		}

		for _, vsu := range vsus(iomem) {
			vdev := vsu.identity()

			for _, f := range vsu.Fields() {
				mx = append(mx, Metric{
					Key:   fmt.Sprintf("fio.status.adapter.iomemory.vsu[%s,%s,%s,%s]", name, dev, vdev, f.Name),
					Value: f.Value.Text(),
				})
			}
		}
	}

	return mx
}
