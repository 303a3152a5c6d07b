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

package repo

import (
	"context"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/database"
)

type INotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, userId string, unreadOnly bool) ([]model.Notification, error)
	// MarkRead flags one notification owned by userId.
	MarkRead(ctx context.Context, userId, notificationId string) (bool, error)
	MarkAllRead(ctx context.Context, userId string) (int64, error)
}

type NotificationRepo struct {
	db database.IDatabase
}

func NewNotificationRepo(db database.IDatabase) INotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return database.Conn(ctx, r.db).Create(n).Error
}

func (r *NotificationRepo) List(ctx context.Context, userId string, unreadOnly bool) ([]model.Notification, error) {
	q := database.Conn(ctx, r.db).Where("user_id = ?", userId)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []model.Notification
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userId, notificationId string) (bool, error) {
	var n model.Notification
	err := database.Conn(ctx, r.db).
		Where("notification_id = ? AND user_id = ?", notificationId, userId).
		First(&n).Error
	if err != nil {
		return false, err
	}
	if n.IsRead {
		return true, nil
	}
	res := database.Conn(ctx, r.db).Model(&model.Notification{}).
		Where("notification_id = ?", notificationId).
		Update("is_read", true)
	return res.RowsAffected == 1, res.Error
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userId string) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
