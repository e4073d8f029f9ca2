// SPDX-License-Identifier: GPL-3.0-or-later

package queue

import (
	"fmt"
	"time"

	"github.com/blackbird/fio-status/logger"
)

// Emitter stamps records with the target host and the emission time
// and puts them on the queue.
type Emitter struct {
	*logger.Logger

	queue *Queue
	host  string
	now   func() time.Time
}

func NewEmitter(q *Queue, host string, log *logger.Logger) *Emitter {
	return &Emitter{
		Logger: log,
		queue:  q,
		host:   host,
		now:    time.Now,
	}
}

func (e *Emitter) Host() string { return e.host }

func (e *Emitter) EmitMetric(key, value string) error {
	item := Item{
		Key:   key,
		Value: value,
		Host:  e.host,
		Clock: e.now().Unix(),
	}
	if err := e.queue.Put(item); err != nil {
		e.Errorf("can't enqueue '%s': %v", key, err)
		return fmt.Errorf("enqueue '%s': %w", key, err)
	}
	e.Debugf("Inserted to queue %s:%s", key, value)
	return nil
}

func (e *Emitter) EmitDiscovery(key string, entries []LLDEntry) error {
	item := DiscoveryItem{
		Key:   key,
		Value: entries,
		Host:  e.host,
		Clock: e.now().Unix(),
	}
	if err := e.queue.Put(item); err != nil {
		e.Errorf("can't enqueue '%s': %v", key, err)
		return fmt.Errorf("enqueue '%s': %w", key, err)
	}
	e.Debugf("Inserted to queue %s:%v", key, entries)
	return nil
}
