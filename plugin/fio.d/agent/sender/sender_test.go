// SPDX-License-Identifier: GPL-3.0-or-later

package sender

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSender_Drain(t *testing.T) {
	q := queue.New(10)
	require.NoError(t, q.Put(queue.Item{Key: "fio.status.version", Value: "3.2.1", Host: "storage01", Clock: 100}))
	require.NoError(t, q.Put(queue.DiscoveryItem{
		Key:   "fio.adapter.LLD",
		Value: []queue.LLDEntry{{"{#ADAPTER}": "Adapter1"}},
		Host:  "storage01",
		Clock: 100,
	}))

	var buf bytes.Buffer
	s := New(q, &buf)

	require.NoError(t, s.Drain())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	req := gjson.Parse(lines[0])
	assert.Equal(t, "sender data", req.Get("request").String())
	assert.Equal(t, int64(2), req.Get("data.#").Int())
	assert.Equal(t, "fio.status.version", req.Get("data.0.key").String())
	assert.Equal(t, "3.2.1", req.Get("data.0.value").String())
	assert.Equal(t, "storage01", req.Get("data.0.host").String())
	assert.Equal(t, int64(100), req.Get("data.0.clock").Int())

	lld := gjson.Parse(req.Get("data.1.value").String())
	assert.Equal(t, "Adapter1", lld.Get("data.0").Map()["{#ADAPTER}"].String())

	assert.Equal(t, 0, q.Len())
}

func TestSender_Drain_Empty(t *testing.T) {
	var buf bytes.Buffer
	s := New(queue.New(1), &buf)

	require.NoError(t, s.Drain())
	assert.Zero(t, buf.Len())
}

func TestSender_BatchSize(t *testing.T) {
	q := queue.New(10)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, q.Put(queue.Item{Key: key, Value: "1"}))
	}

	var buf bytes.Buffer
	s := New(q, &buf)
	s.BatchSize = 2

	require.NoError(t, s.Drain())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), gjson.Get(lines[0], "data.#").Int())
	assert.Equal(t, "c", gjson.Get(lines[1], "data.0.key").String())
}

func TestSender_Run(t *testing.T) {
	q := queue.New(10)
	var buf safeBuffer
	s := New(q, &buf)
	s.FlushEvery = time.Millisecond * 10

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); s.Run(ctx) }()

	require.NoError(t, q.Put(queue.Item{Key: "blackbird.fio-status.ping", Value: "1"}))

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "blackbird.fio-status.ping")
	}, time.Second, time.Millisecond*10)

	cancel()
	<-done
}

func TestSender_WriteError(t *testing.T) {
	q := queue.New(1)
	require.NoError(t, q.Put(queue.Item{Key: "a", Value: "1"}))

	s := New(q, errWriter{})

	assert.Error(t, s.Drain())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
