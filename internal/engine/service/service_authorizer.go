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

var (
	errNotProjectMember = apperr.Forbidden("you are not a member of this project")
	errCannotManage     = apperr.Forbidden("you do not have management rights on this project")
)

// ProjectAccess is a successful authorization decision. Membership is nil
// for admins.
type ProjectAccess struct {
	Project    *model.Project
	Membership *model.ProjectMember
}

// Manages reports whether identity holds management rights under this
// decision: admin, creator or MANAGER member.
func (pa *ProjectAccess) Manages(identity *model.Identity) bool {
	switch {
	case pa == nil || identity == nil:
		return false
	case identity.IsAdmin():
		return true
	case pa.Project.IsCreator(identity.Id):
		return true
	default:
		return pa.Membership != nil && pa.Membership.Role == model.ProjectRoleManager
	}
}

type Authorizer struct {
	repos *repo.Repositories
}

func NewAuthorizer(repos *repo.Repositories) *Authorizer {
	return &Authorizer{repos: repos}
}

func (a *Authorizer) load(ctx context.Context, identity *model.Identity, projectId string) (*ProjectAccess, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	project, err := a.repos.Project.GetWithRelations(ctx, projectId)
	if err != nil {
		return nil, apperr.FromStore("project", err)
	}
	access := &ProjectAccess{Project: project}
	if identity.IsAdmin() {
		return access, nil
	}
	for i := range project.Members {
		if project.Members[i].UserId == identity.Id {
			access.Membership = &project.Members[i]
			break
		}
	}
	return access, nil
}

// CanAccessProject grants read access to admins and project members.
func (a *Authorizer) CanAccessProject(ctx context.Context, identity *model.Identity, projectId string) (*ProjectAccess, error) {
	access, err := a.load(ctx, identity, projectId)
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() || access.Membership != nil {
		return access, nil
	}
	return nil, errNotProjectMember
}

// CanManageProject grants management to admins, the creator and MANAGER
// members. The creator passes on creator_id alone.
func (a *Authorizer) CanManageProject(ctx context.Context, identity *model.Identity, projectId string) (*ProjectAccess, error) {
	access, err := a.load(ctx, identity, projectId)
	if err != nil {
		return nil, err
	}
	if access.Manages(identity) {
		return access, nil
	}
	return nil, errCannotManage
}
