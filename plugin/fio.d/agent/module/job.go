// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/blackbird/fio-status/logger"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
)

type JobConfig struct {
	PluginName  string
	Name        string
	ModuleName  string
	FullName    string
	Module      Module
	Queue       *queue.Queue
	Hostname    string
	UpdateEvery int
	LLDInterval int
}

const (
	penaltyStep = 5
	maxPenalty  = 600
)

func NewJob(cfg JobConfig) *Job {
	if cfg.UpdateEvery <= 0 {
		cfg.UpdateEvery = UpdateEvery
	}
	if cfg.LLDInterval <= 0 {
		cfg.LLDInterval = LLDInterval
	}

	j := &Job{
		pluginName:  cfg.PluginName,
		name:        cfg.Name,
		moduleName:  cfg.ModuleName,
		fullName:    cfg.FullName,
		updateEvery: cfg.UpdateEvery,
		lldInterval: cfg.LLDInterval,
		module:      cfg.Module,
		stop:        make(chan struct{}),
		tick:        make(chan int, 1),
	}

	log := logger.New().With(
		slog.String("collector", j.ModuleName()),
		slog.String("job", j.Name()),
	)

	j.Logger = log
	j.emitter = queue.NewEmitter(cfg.Queue, cfg.Hostname, log)
	if j.module != nil {
		j.module.GetBase().Logger = log
	}

	return j
}

// Job represents a job. It's a module wrapper.
type Job struct {
	pluginName string
	name       string
	moduleName string
	fullName   string

	updateEvery int
	lldInterval int

	*logger.Logger

	module  Module
	emitter *queue.Emitter

	initialized bool
	panicked    bool

	tick chan int

	retries    int
	discovered bool

	stop chan struct{}
}

// FullName returns job full name.
func (j *Job) FullName() string {
	return j.fullName
}

// ModuleName returns job module name.
func (j *Job) ModuleName() string {
	return j.moduleName
}

// Name returns job name.
func (j *Job) Name() string {
	return j.name
}

// Panicked returns 'panicked' flag value.
func (j *Job) Panicked() bool {
	return j.panicked
}

func (j *Job) Configuration() any {
	return j.module.Configuration()
}

// AutoDetection invokes init and check. It handles panic.
func (j *Job) AutoDetection(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic %v", r)
			j.panicked = true

			j.Errorf("PANIC %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
		if err != nil {
			j.module.Cleanup(ctx)
		}
	}()

	if err = j.init(ctx); err != nil {
		j.Errorf("init failed: %v", err)
		return err
	}

	if err = j.check(ctx); err != nil {
		j.Errorf("check failed: %v", err)
		return err
	}

	j.Info("check success")

	return nil
}

// Tick hands the clock to the job loop. A tick that arrives while the
// previous one is still pending is dropped.
func (j *Job) Tick(clock int) {
	select {
	case j.tick <- clock:
	default:
		j.Debug("skip the tick due to previous run hasn't been finished")
	}
}

// Start starts job main loop.
func (j *Job) Start() {
	j.Infof("started, data collection interval %ds, discovery interval %ds", j.updateEvery, j.lldInterval)
	defer func() { j.Info("stopped") }()

LOOP:
	for {
		select {
		case <-j.stop:
			break LOOP
		case t := <-j.tick:
			j.runTick(t)
		}
	}
	j.module.Cleanup(context.Background())
	j.stop <- struct{}{}
}

// Stop stops job main loop. It blocks until the job is stopped.
func (j *Job) Stop() {
	j.stop <- struct{}{}
	<-j.stop
}

// RunOnce runs one discovery and one value cycle and returns the first error.
func (j *Job) RunOnce(ctx context.Context) error {
	for _, fn := range []func(context.Context) error{j.discover, j.collect} {
		if err := j.withDeadline(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup releases the module resources. Start does it on its own when stopped.
func (j *Job) Cleanup(ctx context.Context) {
	j.module.Cleanup(ctx)
}

func (j *Job) runTick(clock int) {
	if !j.discovered || clock%j.lldInterval == 0 {
		j.discovered = true
		j.runCycle("discovery", j.discover)
	}
	if clock%(j.updateEvery+j.penalty()) == 0 {
		if j.runCycle("collection", j.collect) {
			j.retries = 0
		} else {
			j.retries++
		}
	}
}

func (j *Job) runCycle(name string, fn func(context.Context) error) bool {
	now := time.Now()
	err := j.withDeadline(context.Background(), fn)
	j.Debugf("%s cycle took %s", name, time.Since(now))

	if err != nil {
		j.Errorf("%s cycle failed: %v", name, err)
		return false
	}
	return !j.panicked
}

// withDeadline bounds a cycle by the collection interval.
func (j *Job) withDeadline(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(j.updateEvery)*time.Second)
	defer cancel()
	return fn(ctx)
}

func (j *Job) collect(ctx context.Context) error {
	return j.safeCall(ctx, j.module.Collect)
}

func (j *Job) discover(ctx context.Context) error {
	return j.safeCall(ctx, j.module.Discover)
}

func (j *Job) safeCall(ctx context.Context, fn func(context.Context, *queue.Emitter) error) (err error) {
	j.panicked = false
	defer func() {
		if r := recover(); r != nil {
			j.panicked = true
			err = fmt.Errorf("panic %v", r)
			j.Errorf("PANIC: %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				j.Errorf("STACK: %s", debug.Stack())
			}
		}
	}()
	return fn(ctx, j.emitter)
}

func (j *Job) init(ctx context.Context) error {
	if j.initialized {
		return nil
	}

	if err := j.module.Init(ctx); err != nil {
		return err
	}

	j.initialized = true

	return nil
}

func (j *Job) check(ctx context.Context) error {
	return j.module.Check(ctx)
}

func (j *Job) penalty() int {
	v := j.retries / penaltyStep * penaltyStep * j.updateEvery / 2
	if v > maxPenalty {
		return maxPenalty
	}
	return v
}
