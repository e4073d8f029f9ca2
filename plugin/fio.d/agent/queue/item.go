// SPDX-License-Identifier: GPL-3.0-or-later

package queue

import (
	"encoding/json"
	"fmt"
)

// Record is anything the sender can deliver.
type Record interface {
	Data() Data
}

// Data is the wire shape of a record.
type Data struct {
	Host  string `json:"host"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Clock int64  `json:"clock"`
}

// Item is a single metric value.
type Item struct {
	Key   string
	Value string
	Host  string
	Clock int64
}

func (i Item) Data() Data {
	return Data{Host: i.Host, Key: i.Key, Value: i.Value, Clock: i.Clock}
}

// LLDEntry binds macro names ("{#ADAPTER}") to the values of one discovered entity.
type LLDEntry map[string]string

// DiscoveryItem carries a low-level discovery list.
type DiscoveryItem struct {
	Key   string
	Value []LLDEntry
	Host  string
	Clock int64
}

func (i DiscoveryItem) Data() Data {
	return Data{Host: i.Host, Key: i.Key, Value: i.lldJSON(), Clock: i.Clock}
}

func (i DiscoveryItem) lldJSON() string {
	entries := i.Value
	if entries == nil {
		entries = []LLDEntry{}
	}
	bs, err := json.Marshal(struct {
		Data []LLDEntry `json:"data"`
	}{Data: entries})
	if err != nil {
		// map[string]string always marshals
		panic(fmt.Sprintf("marshal lld value: %v", err))
	}
	return string(bs)
}
