// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/blackbird/fio-status/logger"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/filelock"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/module"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/queue"
	"github.com/blackbird/fio-status/plugin/fio.d/agent/sender"
	"github.com/blackbird/fio-status/plugin/fio.d/pkg/multipath"
)

// Config is an Agent configuration.
type Config struct {
	Name           string
	ConfDir        []string
	LockDir        string
	QueueSize      int
	MinUpdateEvery int
}

// Agent represents orchestrator.
type Agent struct {
	*logger.Logger

	Name           string
	ConfDir        multipath.MultiPath
	LockDir        string
	QueueSize      int
	MinUpdateEvery int
	ModuleRegistry module.Registry
	Out            io.Writer

	hostname func() (string, error)
	tick     time.Duration
}

// New creates a new Agent.
func New(cfg Config) *Agent {
	return &Agent{
		Logger: logger.New().With(
			slog.String("component", "agent"),
		),
		Name:           cfg.Name,
		ConfDir:        multipath.New(cfg.ConfDir...),
		LockDir:        cfg.LockDir,
		QueueSize:      cfg.QueueSize,
		MinUpdateEvery: cfg.MinUpdateEvery,
		ModuleRegistry: module.DefaultRegistry,
		Out:            os.Stdout,
		hostname:       os.Hostname,
		tick:           time.Second,
	}
}

// Run starts the Agent. It returns on SIGINT or SIGTERM and restarts the jobs
// on SIGHUP or when a config file changes.
func (a *Agent) Run() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	changed := make(chan struct{}, 1)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	var watchWg conc.WaitGroup
	watchWg.Go(func() { a.watchConfig(watchCtx, changed) })
	defer func() { watchCancel(); watchWg.Wait() }()

	for {
		ctx, cancel := context.WithCancel(context.Background())

		var wg conc.WaitGroup
		wg.Go(func() { a.run(ctx) })

		var exit bool
		select {
		case sig := <-ch:
			if sig == syscall.SIGHUP {
				a.Infof("received %s signal (%d). Restarting running instance", sig, sig)
			} else {
				a.Infof("received %s signal (%d). Terminating...", sig, sig)
				exit = true
			}
		case <-changed:
			a.Info("config file changed. Restarting running instance")
		}

		cancel()

		if !a.waitStopped(&wg, time.Second*10) || exit {
			return
		}
	}
}

// RunOnce runs one discovery and one collection cycle of every job,
// writes the queued items and returns.
func (a *Agent) RunOnce(ctx context.Context) error {
	q := queue.New(a.QueueSize)
	snd := sender.New(q, a.Out)

	sndCtx, sndCancel := context.WithCancel(context.Background())
	var sndWg conc.WaitGroup
	sndWg.Go(func() { snd.Run(sndCtx) })

	jobs, err := a.buildJobs(q)

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, job := range jobs {
		if err := job.AutoDetection(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.FullName(), err))
			continue
		}
		if err := job.RunOnce(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.FullName(), err))
		}
		job.Cleanup(ctx)
	}

	sndCancel()
	sndWg.Wait()

	return errors.Join(errs...)
}

func (a *Agent) run(ctx context.Context) {
	a.Info("instance is started")
	defer func() { a.Info("instance is stopped") }()

	q := queue.New(a.QueueSize)
	snd := sender.New(q, a.Out)

	jobs, err := a.buildJobs(q)
	if err != nil {
		a.Error(err)
	}
	if len(jobs) == 0 {
		a.Info("no jobs to run")
		return
	}

	var locker *filelock.Locker
	if a.LockDir != "" {
		locker = filelock.New(a.LockDir)
		defer locker.UnlockAll()
	}

	sndCtx, sndCancel := context.WithCancel(context.Background())
	var sndWg conc.WaitGroup
	sndWg.Go(func() { snd.Run(sndCtx) })

	var wg conc.WaitGroup
	for _, job := range jobs {
		if locker != nil {
			ok, err := locker.Lock(job.FullName())
			if err != nil {
				a.Warningf("job '%s': %v", job.FullName(), err)
			} else if !ok {
				a.Infof("job '%s' is served by another process, skipping it", job.FullName())
				continue
			}
		}
		wg.Go(func() { a.runJob(ctx, job) })
	}
	wg.Wait()

	sndCancel()
	sndWg.Wait()
}

func (a *Agent) runJob(ctx context.Context, job *agentJob) {
	for {
		err := job.AutoDetection(ctx)
		if err == nil {
			break
		}
		if job.retry <= 0 || job.Panicked() {
			a.Infof("job '%s': autodetection failed, giving up", job.FullName())
			return
		}
		a.Infof("job '%s': autodetection failed, will retry in %ds", job.FullName(), job.retry)

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(job.retry) * time.Second):
		}
	}

	var wg conc.WaitGroup
	wg.Go(job.Start)
	defer wg.Wait()

	tk := time.NewTicker(a.tick)
	defer tk.Stop()

	var clock int
	job.Tick(clock)

	for {
		select {
		case <-ctx.Done():
			job.Stop()
			return
		case <-tk.C:
			clock++
			job.Tick(clock)
		}
	}
}

type agentJob struct {
	*module.Job
	retry int
}

func (a *Agent) buildJobs(q *queue.Queue) ([]*agentJob, error) {
	names := make([]string, 0, len(a.ModuleRegistry))
	for name := range a.ModuleRegistry {
		names = append(names, name)
	}
	slices.Sort(names)

	seen := make(map[string]bool)
	var jobs []*agentJob
	var errs []error

	for _, name := range names {
		creator := a.ModuleRegistry[name]

		cfgs, err := a.loadJobConfigs(name, creator)
		if err != nil {
			errs = append(errs, fmt.Errorf("module '%s': %w", name, err))
			continue
		}

		for _, cfg := range cfgs {
			if err := cfg.validate(); err != nil {
				a.Warningf("module '%s' job '%s': skipping invalid config: %v", name, cfg.Name(), err)
				continue
			}
			if seen[cfg.FullName()] {
				a.Warningf("module '%s': duplicate job name '%s', skipping it", name, cfg.Name())
				continue
			}
			seen[cfg.FullName()] = true

			job, err := a.newJob(creator, cfg, q)
			if err != nil {
				errs = append(errs, fmt.Errorf("job '%s': %w", cfg.FullName(), err))
				continue
			}
			jobs = append(jobs, job)
		}
	}

	return jobs, errors.Join(errs...)
}

func (a *Agent) newJob(creator module.Creator, cfg jobConfig, q *queue.Queue) (*agentJob, error) {
	mod := creator.Create()
	if err := applyConfig(cfg, mod); err != nil {
		return nil, fmt.Errorf("apply config: %v", err)
	}

	hostname := cfg.Hostname()
	if hostname == "" {
		v, err := a.hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve hostname: %v", err)
		}
		hostname = v
	}

	job := module.NewJob(module.JobConfig{
		PluginName:  a.Name,
		Name:        cfg.Name(),
		ModuleName:  cfg.Module(),
		FullName:    cfg.FullName(),
		Module:      mod,
		Queue:       q,
		Hostname:    hostname,
		UpdateEvery: cfg.UpdateEvery(),
		LLDInterval: cfg.LLDInterval(),
	})

	return &agentJob{Job: job, retry: cfg.AutoDetectionRetry()}, nil
}

func (a *Agent) waitStopped(wg *conc.WaitGroup, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-t.C:
		a.Errorf("stopping all goroutines timed out after %s. Exiting...", timeout)
		return false
	case <-done:
		return true
	}
}
