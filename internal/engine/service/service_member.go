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
	"strings"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"gorm.io/gorm"
)

// ErrCreatorMembershipImmutable is returned for any role change or removal
// aimed at the creator's own membership row.
var ErrCreatorMembershipImmutable = apperr.Forbidden("the project creator's membership cannot be changed or removed")

type AddMemberReq struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type MemberService struct {
	repos *repo.Repositories
	authz *Authorizer
}

func NewMemberService(repos *repo.Repositories, authz *Authorizer) *MemberService {
	return &MemberService{repos: repos, authz: authz}
}

func (s *MemberService) ListMembers(ctx context.Context, identity *model.Identity, projectId string) ([]model.ProjectMember, error) {
	if _, err := s.authz.CanAccessProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	members, err := s.repos.ProjectMember.List(ctx, projectId)
	if err != nil {
		return nil, apperr.FromStore("project member", err)
	}
	return members, nil
}

func parseRoleOrDefault(role string) (model.ProjectRole, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return model.ProjectRoleMember, nil
	}
	return model.ParseProjectRole(role)
}

// AddMember adds a registered user, identified by id or email.
func (s *MemberService) AddMember(ctx context.Context, identity *model.Identity, projectId string, req *AddMemberReq) (*model.ProjectMember, error) {
	if _, err := s.authz.CanManageProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	role, err := parseRoleOrDefault(req.Role)
	if err != nil {
		return nil, err
	}

	var user *model.User
	switch {
	case strings.TrimSpace(req.UserId) != "":
		user, err = s.repos.User.Get(ctx, strings.TrimSpace(req.UserId))
	case strings.TrimSpace(req.Email) != "":
		user, err = s.repos.User.GetByEmail(ctx, req.Email)
	default:
		return nil, apperr.Validation("userId or email is required")
	}
	if err != nil {
		return nil, apperr.FromStore("user", err)
	}

	member := &model.ProjectMember{
		MemberId:  id.GetUUID(),
		ProjectId: projectId,
		UserId:    user.UserId,
		Role:      role,
	}
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		_, err := s.repos.ProjectMember.GetByUser(ctx, projectId, user.UserId)
		switch {
		case err == nil:
			return apperr.Conflict("user is already a member of this project")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return s.repos.ProjectMember.Create(ctx, member)
	})
	if err != nil {
		return nil, apperr.FromStore("project member", err)
	}
	member.User = user
	log.WithContext(ctx).Infow("project member added", "projectId", projectId, "userId", user.UserId, "role", role)
	return member, nil
}

// UpdateMemberRole changes a member's role. The creator's row is immutable
// whatever the caller's privilege.
func (s *MemberService) UpdateMemberRole(ctx context.Context, identity *model.Identity, projectId, memberId, role string) (*model.ProjectMember, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	newRole, err := model.ParseProjectRole(strings.TrimSpace(role))
	if err != nil {
		return nil, err
	}

	var member *model.ProjectMember
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		access, err := s.authz.CanManageProject(ctx, identity, projectId)
		if err != nil {
			return err
		}
		member, err = s.repos.ProjectMember.Get(ctx, projectId, memberId)
		if err != nil {
			return apperr.FromStore("project member", err)
		}
		if access.Project.IsCreator(member.UserId) {
			return ErrCreatorMembershipImmutable
		}
		if member.Role == newRole {
			return nil
		}
		if err := s.repos.ProjectMember.UpdateRole(ctx, memberId, newRole); err != nil {
			return err
		}
		member.Role = newRole
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("project member", err)
	}
	return member, nil
}

func (s *MemberService) RemoveMember(ctx context.Context, identity *model.Identity, projectId, memberId string) error {
	err := s.repos.InTx(ctx, func(ctx context.Context) error {
		access, err := s.authz.CanManageProject(ctx, identity, projectId)
		if err != nil {
			return err
		}
		member, err := s.repos.ProjectMember.Get(ctx, projectId, memberId)
		if err != nil {
			return apperr.FromStore("project member", err)
		}
		if access.Project.IsCreator(member.UserId) {
			return ErrCreatorMembershipImmutable
		}
		return s.repos.ProjectMember.Delete(ctx, memberId)
	})
	if err != nil {
		return apperr.FromStore("project member", err)
	}
	log.WithContext(ctx).Infow("project member removed", "projectId", projectId, "memberId", memberId)
	return nil
}
