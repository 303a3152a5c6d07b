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

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
)

type NotificationService struct {
	repos *repo.Repositories
}

func NewNotificationService(repos *repo.Repositories) *NotificationService {
	return &NotificationService{repos: repos}
}

func (s *NotificationService) ListNotifications(ctx context.Context, identity *model.Identity, unreadOnly bool) ([]model.Notification, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	list, err := s.repos.Notification.List(ctx, identity.Id, unreadOnly)
	if err != nil {
		return nil, apperr.FromStore("notification", err)
	}
	return list, nil
}

// MarkRead only touches the caller's own notifications; another user's id
// reads as NotFound.
func (s *NotificationService) MarkRead(ctx context.Context, identity *model.Identity, notificationId string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if _, err := s.repos.Notification.MarkRead(ctx, identity.Id, notificationId); err != nil {
		return apperr.FromStore("notification", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, identity *model.Identity) (int64, error) {
	if err := requireIdentity(identity); err != nil {
		return 0, err
	}
	n, err := s.repos.Notification.MarkAllRead(ctx, identity.Id)
	if err != nil {
		return 0, apperr.FromStore("notification", err)
	}
	return n, nil
}
