// SPDX-License-Identifier: GPL-3.0-or-later

package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blackbird/fio-status/logger"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
)

const (
	defaultBatchSize  = 250
	defaultFlushEvery = time.Second
)

// request is the Zabbix sender protocol payload.
type request struct {
	Request string       `json:"request"`
	Data    []queue.Data `json:"data"`
}

// Sender moves records from the queue to Out, one sender request per batch.
type Sender struct {
	*logger.Logger

	Out        io.Writer
	BatchSize  int
	FlushEvery time.Duration

	queue *queue.Queue
	batch []queue.Data
}

func New(q *queue.Queue, out io.Writer) *Sender {
	return &Sender{
		Logger: logger.New().With(
			slog.String("component", "sender"),
		),
		Out:        out,
		BatchSize:  defaultBatchSize,
		FlushEvery: defaultFlushEvery,
		queue:      q,
	}
}

// Run consumes the queue until ctx is done, then writes what is left.
func (s *Sender) Run(ctx context.Context) {
	s.Info("instance is started")
	defer func() { s.Info("instance is stopped") }()

	tk := time.NewTicker(s.FlushEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Drain(); err != nil {
				s.Warning(err)
			}
			return
		case r := <-s.queue.Records():
			s.add(r)
		case <-tk.C:
			s.flush()
		}
	}
}

// Drain writes every record currently in the queue.
func (s *Sender) Drain() error {
	for {
		select {
		case r := <-s.queue.Records():
			s.add(r)
		default:
			return s.write()
		}
	}
}

func (s *Sender) add(r queue.Record) {
	s.batch = append(s.batch, r.Data())
	if len(s.batch) >= s.BatchSize {
		s.flush()
	}
}

func (s *Sender) flush() {
	if err := s.write(); err != nil {
		s.Error(err)
	}
}

func (s *Sender) write() error {
	if len(s.batch) == 0 {
		return nil
	}
	defer func() { s.batch = s.batch[:0] }()

	bs, err := json.Marshal(request{Request: "sender data", Data: s.batch})
	if err != nil {
		return fmt.Errorf("marshal sender request: %v", err)
	}
	bs = append(bs, '\n')

	if _, err := s.Out.Write(bs); err != nil {
		return fmt.Errorf("write %d records: %v", len(s.batch), err)
	}
	s.Debugf("sent %d records", len(s.batch))

	return nil
}
