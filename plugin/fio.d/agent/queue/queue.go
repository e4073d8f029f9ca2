// SPDX-License-Identifier: GPL-3.0-or-later

package queue

import (
	"errors"
)

// ErrQueueFull is returned when a record can't be enqueued without blocking.
var ErrQueueFull = errors.New("queue is full")

const DefaultSize = 1024

// Queue is a bounded FIFO of records. Producers never block.
type Queue struct {
	ch chan Record
}

func New(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{ch: make(chan Record, size)}
}

// Put enqueues r or fails with ErrQueueFull.
func (q *Queue) Put(r Record) error {
	select {
	case q.ch <- r:
		return nil
	default:
		return ErrQueueFull
	}
}

// Records exposes the consumer side of the queue.
func (q *Queue) Records() <-chan Record {
	return q.ch
}

func (q *Queue) Len() int { return len(q.ch) }

func (q *Queue) Cap() int { return cap(q.ch) }
