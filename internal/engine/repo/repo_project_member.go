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

type IProjectMemberRepository interface {
	Create(ctx context.Context, m *model.ProjectMember) error
	Get(ctx context.Context, projectId, memberId string) (*model.ProjectMember, error)
	GetByUser(ctx context.Context, projectId, userId string) (*model.ProjectMember, error)
	List(ctx context.Context, projectId string) ([]model.ProjectMember, error)
	UpdateRole(ctx context.Context, memberId string, role model.ProjectRole) error
	Delete(ctx context.Context, memberId string) error
	DeleteByProject(ctx context.Context, projectId string) error
}

type ProjectMemberRepo struct {
	db database.IDatabase
}

func NewProjectMemberRepo(db database.IDatabase) IProjectMemberRepository {
	return &ProjectMemberRepo{db: db}
}

func (r *ProjectMemberRepo) Create(ctx context.Context, m *model.ProjectMember) error {
	return database.Conn(ctx, r.db).Omit("User").Create(m).Error
}

func (r *ProjectMemberRepo) Get(ctx context.Context, projectId, memberId string) (*model.ProjectMember, error) {
	var m model.ProjectMember
	err := database.Conn(ctx, r.db).
		Where("project_id = ? AND member_id = ?", projectId, memberId).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ProjectMemberRepo) GetByUser(ctx context.Context, projectId, userId string) (*model.ProjectMember, error) {
	var m model.ProjectMember
	err := database.Conn(ctx, r.db).
		Where("project_id = ? AND user_id = ?", projectId, userId).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ProjectMemberRepo) List(ctx context.Context, projectId string) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := database.Conn(ctx, r.db).
		Preload("User").
		Where("project_id = ?", projectId).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *ProjectMemberRepo) UpdateRole(ctx context.Context, memberId string, role model.ProjectRole) error {
	return database.Conn(ctx, r.db).Model(&model.ProjectMember{}).
		Where("member_id = ?", memberId).
		Update("role", role).Error
}

func (r *ProjectMemberRepo) Delete(ctx context.Context, memberId string) error {
	return database.Conn(ctx, r.db).Where("member_id = ?", memberId).Delete(&model.ProjectMember{}).Error
}

func (r *ProjectMemberRepo) DeleteByProject(ctx context.Context, projectId string) error {
	return database.Conn(ctx, r.db).Where("project_id = ?", projectId).Delete(&model.ProjectMember{}).Error
}
