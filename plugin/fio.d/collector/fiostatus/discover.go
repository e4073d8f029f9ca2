// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import (
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
)

const (
	keyAdapterLLD = "fio.adapter.LLD"
	keyDeviceLLD  = "fio.device.LLD"
	keyVsuLLD     = "fio.vsu.LLD"
	keyHostLLD    = "fio.host.LLD"

	macroAdapter = "{#ADAPTER}"
	macroDevice  = "{#DEVICE}"
	macroVsu     = "{#VSU}"
	macroHost    = "{#HOST}"
)

// Discovery lists the entities flatten produces values for.
type Discovery struct {
	Adapters []queue.LLDEntry
	Devices  []queue.LLDEntry
	Vsus     []queue.LLDEntry
	Hosts    []queue.LLDEntry
}

func discover(doc *Document) Discovery {
	d := Discovery{
		Adapters: []queue.LLDEntry{},
		Devices:  []queue.LLDEntry{},
		Vsus:     []queue.LLDEntry{},
		Hosts:    []queue.LLDEntry{},
	}

	for i, adapter := range doc.Adapters() {
		name := adapterName(i)
		d.Adapters = append(d.Adapters, queue.LLDEntry{macroAdapter: name})

		for _, iomem := range iomemories(adapter) {
			dev := iomem.identity()
			d.Devices = append(d.Devices, queue.LLDEntry{
				macroAdapter: name,
				macroDevice:  dev,
			})

			for _, vsu := range vsus(iomem) {
				d.Vsus = append(d.Vsus, queue.LLDEntry{
					macroAdapter: name,
					macroDevice:  dev,
					macroVsu:     vsu.identity(),
				})
			}
		}
	}

	for i := range doc.Hosts() {
		d.Hosts = append(d.Hosts, queue.LLDEntry{macroHost: hostName(i)})
	}

	return d
}
