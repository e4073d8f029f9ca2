// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pluginName = "plugin"
	modName    = "module"
	jobName    = "job"
)

func newTestJob(m *MockModule, q *queue.Queue) *Job {
	return NewJob(
		JobConfig{
			PluginName:  pluginName,
			Name:        jobName,
			ModuleName:  modName,
			FullName:    modName + "_" + jobName,
			Module:      m,
			Queue:       q,
			Hostname:    "storage01",
			UpdateEvery: 2,
			LLDInterval: 4,
		},
	)
}

func TestNewJob(t *testing.T) {
	assert.IsType(t, (*Job)(nil), newTestJob(&MockModule{}, queue.New(1)))
}

func TestJob_FullName(t *testing.T) {
	job := newTestJob(&MockModule{}, queue.New(1))

	assert.Equal(t, job.FullName(), modName+"_"+jobName)
}

func TestJob_Name(t *testing.T) {
	job := newTestJob(&MockModule{}, queue.New(1))

	assert.Equal(t, job.Name(), jobName)
}

func TestJob_ModuleName(t *testing.T) {
	job := newTestJob(&MockModule{}, queue.New(1))

	assert.Equal(t, job.ModuleName(), modName)
}

func TestJob_AutoDetection(t *testing.T) {
	tests := map[string]struct {
		m           *MockModule
		wantErr     bool
		wantCleanup bool
	}{
		"success": {
			m: &MockModule{},
		},
		"fail on init": {
			m:           &MockModule{FailOnInit: true},
			wantErr:     true,
			wantCleanup: true,
		},
		"fail on check": {
			m:           &MockModule{ErrOnCheck: true},
			wantErr:     true,
			wantCleanup: true,
		},
		"panic on check": {
			m:           &MockModule{CheckFunc: func() error { panic("panic in check") }},
			wantErr:     true,
			wantCleanup: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			job := newTestJob(test.m, queue.New(1))

			err := job.AutoDetection(context.Background())

			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.wantCleanup, test.m.CleanupDone)
		})
	}
}

func TestJob_RunOnce(t *testing.T) {
	var calls []string
	m := &MockModule{
		DiscoverFunc: func(e *queue.Emitter) error {
			calls = append(calls, "discover")
			return e.EmitDiscovery("fio.host.LLD", nil)
		},
		CollectFunc: func(e *queue.Emitter) error {
			calls = append(calls, "collect")
			return e.EmitMetric("blackbird.fio-status.ping", "1")
		},
	}
	q := queue.New(10)
	job := newTestJob(m, q)

	require.NoError(t, job.RunOnce(context.Background()))

	assert.Equal(t, []string{"discover", "collect"}, calls)
	require.Equal(t, 2, q.Len())
	assert.Equal(t, "storage01", (<-q.Records()).Data().Host)
}

func TestJob_RunOnce_StopsOnDiscoveryError(t *testing.T) {
	var collected bool
	m := &MockModule{
		DiscoverFunc: func(*queue.Emitter) error { return errors.New("mock discover error") },
		CollectFunc:  func(*queue.Emitter) error { collected = true; return nil },
	}
	job := newTestJob(m, queue.New(1))

	assert.Error(t, job.RunOnce(context.Background()))
	assert.False(t, collected)
}

func TestJob_runTick(t *testing.T) {
	var discovered, collected int
	m := &MockModule{
		DiscoverFunc: func(*queue.Emitter) error { discovered++; return nil },
		CollectFunc:  func(*queue.Emitter) error { collected++; return nil },
	}
	job := newTestJob(m, queue.New(1))

	// update every 2s, discovery every 4s
	for clock := 0; clock < 8; clock++ {
		job.runTick(clock)
	}

	assert.Equal(t, 2, discovered)
	assert.Equal(t, 4, collected)
}

func TestJob_runTick_Panic(t *testing.T) {
	m := &MockModule{
		CollectFunc: func(*queue.Emitter) error { panic("panic in collect") },
	}
	job := newTestJob(m, queue.New(1))

	assert.NotPanics(t, func() { job.runTick(0) })
	assert.True(t, job.Panicked())
	assert.Equal(t, 1, job.retries)
}

func TestJob_penalty(t *testing.T) {
	job := newTestJob(&MockModule{}, queue.New(1))

	assert.Equal(t, 0, job.penalty())

	job.retries = penaltyStep
	assert.Equal(t, penaltyStep*job.updateEvery/2, job.penalty())

	job.retries = 10000
	assert.Equal(t, maxPenalty, job.penalty())
}

func TestJob_StartStop(t *testing.T) {
	m := &MockModule{}
	job := newTestJob(m, queue.New(1))

	go job.Start()
	job.Stop()

	assert.True(t, m.CleanupDone)
}

func TestJob_Tick(t *testing.T) {
	m := &MockModule{}
	job := newTestJob(m, queue.New(1))

	job.Tick(0)
	job.Tick(1)
	assert.Len(t, job.tick, 1, "pending tick is not replaced")

	go job.Start()
	assert.Eventually(t, func() bool { return len(job.tick) == 0 }, time.Second, time.Millisecond*10)
	job.Stop()

	assert.True(t, m.CleanupDone)
}
