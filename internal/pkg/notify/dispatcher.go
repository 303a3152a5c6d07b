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

package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/notify/channel"
	"github.com/go-arcade/askflow/internal/pkg/notify/template"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
)

// Dispatcher persists notifications once the business transaction has
// committed and relays them to the configured channels. It never fails
// the caller.
type Dispatcher struct {
	notifications repo.INotificationRepository
	templates     *template.TemplateEngine
	manager       *NotifyManager
	timeout       time.Duration
	now           func() time.Time
	wg            sync.WaitGroup
}

func NewDispatcher(notifications repo.INotificationRepository, templates *template.TemplateEngine, manager *NotifyManager, conf Config) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		templates:     templates,
		manager:       manager,
		timeout:       conf.deliveryTimeout(),
		now:           time.Now,
	}
}

// AfterCommit must be called with a context that carries no transaction.
func (d *Dispatcher) AfterCommit(ctx context.Context, msgs ...Message) {
	if d == nil || len(msgs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if database.InTransaction(ctx) {
		log.WithContext(ctx).Warnw("notifications dispatched inside a transaction", "count", len(msgs))
	}

	for _, msg := range msgs {
		n, err := d.persist(ctx, msg)
		metrics.RecordNotification(string(msg.Type), err)
		if err != nil {
			log.WithContext(ctx).Errorw("failed to store notification",
				"type", msg.Type,
				"userId", msg.UserId,
				"relatedId", msg.RelatedId,
				"error", err,
			)
			continue
		}
		d.fanOut(ctx, n)
	}
}

func (d *Dispatcher) persist(ctx context.Context, msg Message) (*model.Notification, error) {
	text, err := d.templates.Render(msg.Type, template.Data{Title: msg.Title})
	if err != nil {
		return nil, err
	}
	n := &model.Notification{
		NotificationId: id.GetUUID(),
		UserId:         msg.UserId,
		Type:           msg.Type,
		Message:        text,
	}
	if msg.RelatedId != "" {
		related := msg.RelatedId
		n.RelatedId = &related
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *Dispatcher) fanOut(ctx context.Context, n *model.Notification) {
	if d.manager == nil || len(d.manager.ListChannels()) == 0 {
		return
	}
	payload := channel.Payload{
		NotificationId: n.NotificationId,
		UserId:         n.UserId,
		Type:           string(n.Type),
		Message:        n.Message,
		CreatedAt:      d.now(),
	}
	if n.RelatedId != nil {
		payload.RelatedId = *n.RelatedId
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if err := d.manager.Broadcast(sendCtx, payload); err != nil {
			log.WithContext(ctx).Warnw("notification delivery failed",
				"notificationId", payload.NotificationId,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight channel deliveries have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
