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
	"errors"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"gorm.io/gorm"
)

const DefaultInvitationTTL = 7 * 24 * time.Hour

var (
	errInvitationNotYours = apperr.Forbidden("this invitation was sent to another email address")
	errInvitationExpired  = apperr.Validation("invitation has expired")
)

type CreateInvitationReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type InvitationService struct {
	repos *repo.Repositories
	authz *Authorizer
	ttl   time.Duration
	clock clock
}

func NewInvitationService(repos *repo.Repositories, authz *Authorizer, ttl time.Duration) *InvitationService {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	return &InvitationService{repos: repos, authz: authz, ttl: ttl}
}

func (s *InvitationService) CreateInvitation(ctx context.Context, identity *model.Identity, projectId string, req *CreateInvitationReq) (*model.Invitation, error) {
	if _, err := s.authz.CanManageProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	if !model.ValidEmail(req.Email) {
		return nil, apperr.Validation("a valid email is required")
	}
	role, err := parseRoleOrDefault(req.Role)
	if err != nil {
		return nil, err
	}
	email := model.NormalizeEmail(req.Email)
	now := s.clock.now()

	inv := &model.Invitation{
		InvitationId: id.GetUUID(),
		ProjectId:    projectId,
		Email:        email,
		InviterId:    identity.Id,
		Role:         role,
		Status:       model.InvitationPending,
		Token:        id.GetUUIDWithoutDashes(),
		ExpiresAt:    now.Add(s.ttl),
	}

	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		user, err := s.repos.User.GetByEmail(ctx, email)
		switch {
		case err == nil:
			inv.UserId = &user.UserId
			if _, err := s.repos.ProjectMember.GetByUser(ctx, projectId, user.UserId); err == nil {
				return apperr.Conflict("user is already a member of this project")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		live, err := s.repos.Invitation.ExistsLive(ctx, projectId, email, now)
		if err != nil {
			return err
		}
		if live {
			return apperr.Conflict("a pending invitation already exists for this email")
		}
		return s.repos.Invitation.Create(ctx, inv)
	})
	if err != nil {
		return nil, apperr.FromStore("invitation", err)
	}

	log.WithContext(ctx).Infow("invitation created", "projectId", projectId, "invitationId", inv.InvitationId)
	return inv, nil
}

func (s *InvitationService) ListProjectInvitations(ctx context.Context, identity *model.Identity, projectId string) ([]model.Invitation, error) {
	if _, err := s.authz.CanManageProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	list, err := s.repos.Invitation.ListByProject(ctx, projectId)
	if err != nil {
		return nil, apperr.FromStore("invitation", err)
	}
	return s.expireLapsed(ctx, list), nil
}

// ListMyInvitations returns the caller's invitations that can still be
// answered.
func (s *InvitationService) ListMyInvitations(ctx context.Context, identity *model.Identity) ([]model.Invitation, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	list, err := s.repos.Invitation.ListPendingByEmail(ctx, identity.Email)
	if err != nil {
		return nil, apperr.FromStore("invitation", err)
	}
	list = s.expireLapsed(ctx, list)
	pending := list[:0]
	for _, inv := range list {
		if inv.Status == model.InvitationPending {
			pending = append(pending, inv)
		}
	}
	return pending, nil
}

// expireLapsed persists EXPIRED for lapsed rows and mirrors it in list.
// A failed write only costs a later retry.
func (s *InvitationService) expireLapsed(ctx context.Context, list []model.Invitation) []model.Invitation {
	now := s.clock.now()
	var lapsed []string
	for i := range list {
		if list[i].Lapsed(now) {
			lapsed = append(lapsed, list[i].InvitationId)
			list[i].Status = model.InvitationExpired
		}
	}
	if len(lapsed) == 0 {
		return list
	}
	if _, err := s.repos.Invitation.ExpireLapsed(ctx, now, lapsed...); err != nil {
		log.WithContext(ctx).Warnw("failed to persist invitation expiry", "count", len(lapsed), "error", err)
	}
	return list
}

// open loads the invitation for the invitee, applying lazy expiry.
func (s *InvitationService) open(ctx context.Context, identity *model.Identity, token string) (*model.Invitation, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	inv, err := s.repos.Invitation.GetByToken(ctx, token)
	if err != nil {
		return nil, apperr.FromStore("invitation", err)
	}
	if inv.Email != model.NormalizeEmail(identity.Email) {
		return nil, errInvitationNotYours
	}
	if inv.Lapsed(s.clock.now()) {
		s.expireLapsed(ctx, []model.Invitation{*inv})
		return nil, errInvitationExpired
	}
	if inv.Status != model.InvitationPending {
		return nil, apperr.Newf(apperr.KindValidation, "invitation is already %s", inv.Status)
	}
	return inv, nil
}

// AcceptInvitation adds the caller to the project and closes the
// invitation atomically.
func (s *InvitationService) AcceptInvitation(ctx context.Context, identity *model.Identity, token string) (*model.ProjectMember, error) {
	inv, err := s.open(ctx, identity, token)
	if err != nil {
		return nil, err
	}

	member := &model.ProjectMember{
		MemberId:  id.GetUUID(),
		ProjectId: inv.ProjectId,
		UserId:    identity.Id,
		Role:      inv.Role,
	}
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.repos.Project.Get(ctx, inv.ProjectId); err != nil {
			return apperr.FromStore("project", err)
		}
		if _, err := s.repos.User.Get(ctx, identity.Id); err != nil {
			return apperr.FromStore("user", err)
		}
		moved, err := s.repos.Invitation.UpdateStatus(ctx, inv.InvitationId, model.InvitationPending, model.InvitationAccepted, &identity.Id)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.Conflict("invitation was answered concurrently")
		}
		if err := s.repos.ProjectMember.Create(ctx, member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("you are already a member of this project")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("invitation", err)
	}
	log.WithContext(ctx).Infow("invitation accepted", "invitationId", inv.InvitationId, "projectId", inv.ProjectId, "userId", identity.Id)
	return member, nil
}

func (s *InvitationService) DeclineInvitation(ctx context.Context, identity *model.Identity, token string) error {
	inv, err := s.open(ctx, identity, token)
	if err != nil {
		return err
	}
	moved, err := s.repos.Invitation.UpdateStatus(ctx, inv.InvitationId, model.InvitationPending, model.InvitationDeclined, &identity.Id)
	if err != nil {
		return apperr.FromStore("invitation", err)
	}
	if !moved {
		return apperr.Conflict("invitation was answered concurrently")
	}
	return nil
}
