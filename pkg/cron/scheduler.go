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
	"sync"

	"github.com/go-arcade/askflow/pkg/log"
)

var ErrNotInitialized = errors.New("process scheduler is not initialized")

// NamedJob is a Job that carries its own name. Its runs are logged and
// counted under that name.
type NamedJob interface {
	Job
	JobName() string
}

var (
	processMu sync.RWMutex
	process   *Cron
	once      sync.Once
)

// Init creates the process scheduler. Only the first call has an effect.
func Init(logger *log.Logger, opts ...OpOption) {
	once.Do(func() {
		c := New(opts...)
		if logger != nil {
			c.ErrorLog = logger
		}
		processMu.Lock()
		process = c
		processMu.Unlock()
	})
}

func current() *Cron {
	processMu.RLock()
	defer processMu.RUnlock()
	return process
}

// Schedule registers job on the process scheduler under job.JobName().
func Schedule(spec string, job NamedJob) error {
	c := current()
	if c == nil {
		return ErrNotInitialized
	}
	return c.AddJob(spec, job, job.JobName())
}

func Start() {
	if c := current(); c != nil {
		c.Start()
	}
}

func Stop() {
	if c := current(); c != nil {
		c.Stop()
	}
}

// Entries lists the process scheduler's jobs, nil before Init.
func Entries() []*Entry {
	if c := current(); c != nil {
		return c.Entries()
	}
	return nil
}
