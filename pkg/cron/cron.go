// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cron

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-arcade/askflow/pkg/log"
	robfig "github.com/robfig/cron"
)

var ErrDuplicateJob = errors.New("cron job already registered")

// MetricsRecorder receives job run statistics. pkg/metrics installs one.
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
	UpdateNextRun(jobName string, nextRun time.Time)
	UpdateJobsCount(count int)
}

var (
	recorderMu sync.RWMutex
	recorder   MetricsRecorder
)

func SetMetricsRecorder(r MetricsRecorder) {
	recorderMu.Lock()
	recorder = r
	recorderMu.Unlock()
}

func getRecorder() MetricsRecorder {
	recorderMu.RLock()
	defer recorderMu.RUnlock()
	return recorder
}

// Job is a unit of scheduled work. A returned error is logged and counted.
type Job interface {
	Run() error
}

type FuncJob func() error

func (f FuncJob) Run() error { return f() }

type Entry struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

type OpOption func(*Cron)

// WithLocation sets the time zone schedules are evaluated in.
func WithLocation(loc *time.Location) OpOption {
	return func(c *Cron) {
		c.location = loc
	}
}

type entry struct {
	spec     string
	schedule robfig.Schedule
	prev     time.Time
}

// Cron wraps robfig/cron with named jobs, panic recovery and run metrics.
type Cron struct {
	ErrorLog *log.Logger

	mu       sync.Mutex
	inner    *robfig.Cron
	location *time.Location
	entries  map[string]*entry
	names    []string
	running  bool
}

func New(opts ...OpOption) *Cron {
	c := &Cron{
		location: time.Local,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.inner = robfig.NewWithLocation(c.location)
	return c
}

// AddFunc schedules cmd on spec. Specs take six fields (with seconds) or a
// descriptor such as "@every 5m".
func (c *Cron) AddFunc(spec string, cmd func(), names ...string) error {
	return c.AddJob(spec, FuncJob(func() error {
		cmd()
		return nil
	}), names...)
}

func (c *Cron) AddJob(spec string, job Job, names ...string) error {
	schedule, err := robfig.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	c.mu.Lock()
	name := fmt.Sprintf("job-%d", len(c.names)+1)
	if len(names) > 0 && names[0] != "" {
		name = names[0]
	}
	if _, ok := c.entries[name]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	c.entries[name] = &entry{spec: spec, schedule: schedule}
	c.names = append(c.names, name)
	count := len(c.names)
	c.mu.Unlock()

	c.inner.Schedule(schedule, robfig.FuncJob(c.wrap(name, job)))
	if r := getRecorder(); r != nil {
		r.UpdateJobsCount(count)
		r.UpdateNextRun(name, schedule.Next(time.Now().In(c.location)))
	}
	return nil
}

func (c *Cron) wrap(name string, job Job) func() {
	return func() {
		start := time.Now()
		c.mu.Lock()
		if e, ok := c.entries[name]; ok {
			e.prev = start
		}
		c.mu.Unlock()

		var err error
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
				c.logf("cron job %s panicked: %v\n%s", name, p, debug.Stack())
			}
			if r := getRecorder(); r != nil {
				r.RecordJobRun(name, time.Since(start), err)
				r.UpdateNextRun(name, c.nextRun(name))
			}
		}()
		if err = job.Run(); err != nil {
			c.logf("cron job %s failed: %v", name, err)
		}
	}
}

func (c *Cron) logf(format string, args ...any) {
	if c.ErrorLog != nil && c.ErrorLog.Log != nil {
		c.ErrorLog.Log.Errorf(format, args...)
		return
	}
	log.Errorf(format, args...)
}

func (c *Cron) nextRun(name string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[name]; ok {
		return e.schedule.Next(time.Now().In(c.location))
	}
	return time.Time{}
}

// Entries reports registered jobs in registration order.
func (c *Cron) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().In(c.location)
	out := make([]*Entry, 0, len(c.names))
	for _, name := range c.names {
		e := c.entries[name]
		out = append(out, &Entry{
			Name: name,
			Spec: e.spec,
			Next: e.schedule.Next(now),
			Prev: e.prev,
		})
	}
	return out
}

func (c *Cron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.inner.Start()
}

func (c *Cron) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.inner.Stop()
}
