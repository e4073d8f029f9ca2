// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"errors"

	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
)

type MockConfiguration struct {
	OptionInt int    `yaml:"option_int" json:"option_int"`
	OptionStr string `yaml:"option_str" json:"option_str"`
}

// MockModule MockModule.
type MockModule struct {
	Base

	Config MockConfiguration `yaml:",inline" json:""`

	FailOnInit   bool
	ErrOnCheck   bool
	InitFunc     func() error
	CheckFunc    func() error
	CleanupFunc  func()
	CollectFunc  func(*queue.Emitter) error
	DiscoverFunc func(*queue.Emitter) error
	CleanupDone  bool
}

// Init invokes InitFunc.
func (m *MockModule) Init(context.Context) error {
	if m.FailOnInit {
		return errors.New("mock init error")
	}
	if m.InitFunc == nil {
		return nil
	}
	return m.InitFunc()
}

// Check invokes CheckFunc.
func (m *MockModule) Check(context.Context) error {
	if m.ErrOnCheck {
		return errors.New("mock check error")
	}
	if m.CheckFunc == nil {
		return nil
	}
	return m.CheckFunc()
}

// Collect invokes CollectFunc.
func (m *MockModule) Collect(_ context.Context, e *queue.Emitter) error {
	if m.CollectFunc == nil {
		return nil
	}
	return m.CollectFunc(e)
}

// Discover invokes DiscoverFunc.
func (m *MockModule) Discover(_ context.Context, e *queue.Emitter) error {
	if m.DiscoverFunc == nil {
		return nil
	}
	return m.DiscoverFunc(e)
}

// Cleanup sets CleanupDone to true.
func (m *MockModule) Cleanup(context.Context) {
	if m.CleanupFunc != nil {
		m.CleanupFunc()
	}
	m.CleanupDone = true
}

func (m *MockModule) Configuration() any {
	return m.Config
}
