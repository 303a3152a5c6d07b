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

package service

import (
	"context"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/cron"
	"github.com/go-arcade/askflow/pkg/log"
)

const deadlineJobName = "deadline-check"

type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	DeadlineCheckSpec string `mapstructure:"deadlineCheckSpec"`
	BatchSize         int    `mapstructure:"batchSize"`
}

func (c *SchedulerConfig) SetDefaults() {
	if c.DeadlineCheckSpec == "" {
		c.DeadlineCheckSpec = "@every 5m"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 200
	}
}

// DeadlineChecker reports overdue questions once to their assignee and
// their creator.
type DeadlineChecker struct {
	repos    *repo.Repositories
	notifier *notify.Dispatcher
	batch    int
	timeout  time.Duration
	clock    clock
}

func NewDeadlineChecker(repos *repo.Repositories, notifier *notify.Dispatcher, batch int) *DeadlineChecker {
	return &DeadlineChecker{repos: repos, notifier: notifier, batch: batch, timeout: time.Minute}
}

func ProvideDeadlineChecker(repos *repo.Repositories, notifier *notify.Dispatcher, conf SchedulerConfig) *DeadlineChecker {
	conf.SetDefaults()
	return NewDeadlineChecker(repos, notifier, conf.BatchSize)
}

// Register schedules the checker on the process scheduler.
func (c *DeadlineChecker) Register(spec string) error {
	return cron.Schedule(spec, c)
}

func (c *DeadlineChecker) JobName() string {
	return deadlineJobName
}

func (c *DeadlineChecker) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	_, err := c.Check(ctx)
	return err
}

// Check stamps every overdue question in one transaction and notifies after
// commit. It returns the number of questions reported.
func (c *DeadlineChecker) Check(ctx context.Context) (int, error) {
	now := c.clock.now()
	var msgs []notify.Message

	err := c.repos.InTx(ctx, func(ctx context.Context) error {
		overdue, err := c.repos.Question.ListOverdue(ctx, now, c.batch)
		if err != nil {
			return err
		}
		msgs = msgs[:0]
		for _, q := range overdue {
			stamped, err := c.repos.Question.MarkDeadlineNotified(ctx, q.QuestionId, now)
			if err != nil {
				return err
			}
			if !stamped {
				continue
			}
			msgs = append(msgs,
				notify.Message{UserId: q.AssigneeId, Type: model.NotifyAssigneeDeadlineExceeded, RelatedId: q.QuestionId, Title: q.Title},
				notify.Message{UserId: q.CreatorId, Type: model.NotifyRequesterDeadlineExceeded, RelatedId: q.QuestionId, Title: q.Title},
			)
		}
		return nil
	})
	if err != nil {
		log.WithContext(ctx).Errorw("deadline check failed", "error", err)
		return 0, err
	}

	c.notifier.AfterCommit(ctx, msgs...)
	if n := len(msgs) / 2; n > 0 {
		log.WithContext(ctx).Infow("overdue questions reported", "count", n)
	}
	return len(msgs) / 2, nil
}
