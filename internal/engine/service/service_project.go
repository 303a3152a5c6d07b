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
	"strings"
	"unicode/utf8"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
)

const maxProjectNameLen = 128

type CreateProjectReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectService struct {
	repos *repo.Repositories
	authz *Authorizer
}

func NewProjectService(repos *repo.Repositories, authz *Authorizer) *ProjectService {
	return &ProjectService{repos: repos, authz: authz}
}

func validProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("project name is required")
	}
	if utf8.RuneCountInString(name) > maxProjectNameLen {
		return "", apperr.Newf(apperr.KindValidation, "project name must be at most %d characters", maxProjectNameLen)
	}
	return name, nil
}

// CreateProject stores the project and the creator's MANAGER membership in
// one transaction.
func (s *ProjectService) CreateProject(ctx context.Context, identity *model.Identity, req *CreateProjectReq) (*model.Project, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	name, err := validProjectName(req.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.User.Get(ctx, identity.Id); err != nil {
		return nil, apperr.FromStore("user", err)
	}

	project := &model.Project{
		ProjectId:   id.GetUUID(),
		CreatorId:   identity.Id,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Project.Create(ctx, project); err != nil {
			return err
		}
		return s.repos.ProjectMember.Create(ctx, &model.ProjectMember{
			MemberId:  id.GetUUID(),
			ProjectId: project.ProjectId,
			UserId:    identity.Id,
			Role:      model.ProjectRoleManager,
		})
	})
	if err != nil {
		log.WithContext(ctx).Errorw("create project failed", "name", name, "error", err)
		return nil, apperr.FromStore("project", err)
	}

	log.WithContext(ctx).Infow("project created", "projectId", project.ProjectId, "creatorId", identity.Id)
	return s.GetProject(ctx, identity, project.ProjectId)
}

// ListProjects returns every project to admins and the member projects to
// everyone else.
func (s *ProjectService) ListProjects(ctx context.Context, identity *model.Identity) ([]model.Project, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	var (
		list []model.Project
		err  error
	)
	if identity.IsAdmin() {
		list, err = s.repos.Project.ListAll(ctx)
	} else {
		list, err = s.repos.Project.ListForUser(ctx, identity.Id)
	}
	if err != nil {
		return nil, apperr.FromStore("project", err)
	}
	return list, nil
}

func (s *ProjectService) GetProject(ctx context.Context, identity *model.Identity, projectId string) (*model.Project, error) {
	access, err := s.authz.CanAccessProject(ctx, identity, projectId)
	if err != nil {
		return nil, err
	}
	return access.Project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, identity *model.Identity, projectId string, req *UpdateProjectReq) (*model.Project, error) {
	if _, err := s.authz.CanManageProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	updates := make(map[string]any)
	if req.Name != nil {
		name, err := validProjectName(*req.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("nothing to update")
	}
	if err := s.repos.Project.Update(ctx, projectId, updates); err != nil {
		return nil, apperr.FromStore("project", err)
	}
	return s.GetProject(ctx, identity, projectId)
}

// DeleteProject removes the project with its members, invitations,
// questions, forms and answers in one transaction.
func (s *ProjectService) DeleteProject(ctx context.Context, identity *model.Identity, projectId string) error {
	err := s.repos.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.authz.CanManageProject(ctx, identity, projectId); err != nil {
			return err
		}
		questionIds, err := s.repos.Question.ListIdsByProject(ctx, projectId)
		if err != nil {
			return err
		}
		if err := s.repos.Answer.DeleteByQuestions(ctx, questionIds...); err != nil {
			return err
		}
		if err := s.repos.AnswerForm.DeleteByQuestions(ctx, questionIds...); err != nil {
			return err
		}
		if err := s.repos.Question.DeleteByProject(ctx, projectId); err != nil {
			return err
		}
		if err := s.repos.Invitation.DeleteByProject(ctx, projectId); err != nil {
			return err
		}
		if err := s.repos.ProjectMember.DeleteByProject(ctx, projectId); err != nil {
			return err
		}
		return s.repos.Project.Delete(ctx, projectId)
	})
	if err != nil {
		return apperr.FromStore("project", err)
	}
	log.WithContext(ctx).Infow("project deleted", "projectId", projectId, "by", identity.Id)
	return nil
}
