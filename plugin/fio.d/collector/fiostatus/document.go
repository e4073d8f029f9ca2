// SPDX-License-Identifier: GPL-3.0-or-later

package fiostatus

import "fmt"

const (
	sectionAdapter = "adapter"
	sectionHost    = "host"
	sectionVersion = "version"

	fieldIomemory   = "iomemory"
	fieldVsu        = "vsu"
	fieldDevicePath = "device_path"
)

// Document is one parsed fio-status report. It is built fresh every
// cycle and never modified after parsing.
type Document struct {
	root Value
}

func newDocument(root Value) *Document {
	return &Document{root: root}
}

// Version returns the reported version, if any.
func (d *Document) Version() (Value, bool) {
	return d.root.Get(sectionVersion)
}

// Adapters returns the adapter section. Elements that aren't records still
// hold their position, so AdapterN naming stays stable.
func (d *Document) Adapters() []Value {
	return d.root.list(sectionAdapter)
}

// Hosts returns the host section, positions kept like Adapters.
func (d *Document) Hosts() []Value {
	return d.root.list(sectionHost)
}

// iomemories returns the devices of an adapter.
func iomemories(adapter Value) []Value {
	return adapter.records(fieldIomemory)
}

// vsus returns the virtual storage units of a device.
func vsus(iomemory Value) []Value {
	return iomemory.records(fieldVsu)
}

func adapterName(idx int) string {
	return fmt.Sprintf("Adapter%d", idx+1)
}

func hostName(idx int) string {
	return fmt.Sprintf("host%d", idx+1)
}
