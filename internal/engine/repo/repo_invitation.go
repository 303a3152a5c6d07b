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
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/database"
)

type IInvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	ListByProject(ctx context.Context, projectId string) ([]model.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]model.Invitation, error)
	// UpdateStatus moves an invitation out of from; it reports false when
	// another writer got there first.
	UpdateStatus(ctx context.Context, invitationId string, from, to model.InvitationStatus, userId *string) (bool, error)
	// ExpireLapsed marks PENDING invitations past their expiry as EXPIRED.
	ExpireLapsed(ctx context.Context, now time.Time, invitationIds ...string) (int64, error)
	ExistsLive(ctx context.Context, projectId, email string, now time.Time) (bool, error)
	DeleteByProject(ctx context.Context, projectId string) error
}

type InvitationRepo struct {
	db database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	inv.Email = model.NormalizeEmail(inv.Email)
	return database.Conn(ctx, r.db).Create(inv).Error
}

func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := database.Conn(ctx, r.db).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepo) ListByProject(ctx context.Context, projectId string) ([]model.Invitation, error) {
	var list []model.Invitation
	err := database.Conn(ctx, r.db).
		Where("project_id = ?", projectId).
		Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *InvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	var list []model.Invitation
	err := database.Conn(ctx, r.db).
		Where("email = ? AND status = ?", model.NormalizeEmail(email), model.InvitationPending).
		Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *InvitationRepo) UpdateStatus(ctx context.Context, invitationId string, from, to model.InvitationStatus, userId *string) (bool, error) {
	updates := map[string]any{"status": to}
	if userId != nil {
		updates["user_id"] = *userId
	}
	res := database.Conn(ctx, r.db).Model(&model.Invitation{}).
		Where("invitation_id = ? AND status = ?", invitationId, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *InvitationRepo) ExpireLapsed(ctx context.Context, now time.Time, invitationIds ...string) (int64, error) {
	q := database.Conn(ctx, r.db).Model(&model.Invitation{}).
		Where("status = ? AND expires_at <= ?", model.InvitationPending, now)
	if len(invitationIds) > 0 {
		q = q.Where("invitation_id IN ?", invitationIds)
	}
	res := q.Update("status", model.InvitationExpired)
	return res.RowsAffected, res.Error
}

func (r *InvitationRepo) ExistsLive(ctx context.Context, projectId, email string, now time.Time) (bool, error) {
	n, err := Count(database.Conn(ctx, r.db).Model(&model.Invitation{}).
		Where("project_id = ? AND email = ? AND status = ? AND expires_at > ?",
			projectId, model.NormalizeEmail(email), model.InvitationPending, now))
	return n > 0, err
}

func (r *InvitationRepo) DeleteByProject(ctx context.Context, projectId string) error {
	return database.Conn(ctx, r.db).Where("project_id = ?", projectId).Delete(&model.Invitation{}).Error
}
