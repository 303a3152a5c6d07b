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
	"testing"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ReadFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.GlobalRoleUser)
	bob := f.user(t, "bob", model.GlobalRoleUser)
	p := f.project(t, alice, map[*model.Identity]model.ProjectRole{bob: model.ProjectRoleMember})
	f.question(t, alice, p.ProjectId, bob)
	f.question(t, alice, p.ProjectId, bob)

	unread, err := f.svc.Notification.ListNotifications(ctx, bob, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	assertKind(t, f.svc.Notification.MarkRead(ctx, alice, unread[0].NotificationId), apperr.KindNotFound)
	require.NoError(t, f.svc.Notification.MarkRead(ctx, bob, unread[0].NotificationId))

	unread, err = f.svc.Notification.ListNotifications(ctx, bob, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	n, err := f.svc.Notification.MarkAllRead(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := f.svc.Notification.ListNotifications(ctx, bob, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, n := range all {
		assert.True(t, n.IsRead)
	}

	_, err = f.svc.Notification.ListNotifications(ctx, nil, false)
	assertKind(t, err, apperr.KindUnauthenticated)
}
