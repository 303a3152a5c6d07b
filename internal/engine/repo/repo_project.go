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
	"gorm.io/gorm"
)

type IProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, projectId string) (*model.Project, error)
	// GetWithRelations preloads Creator and Members (with their users)
	GetWithRelations(ctx context.Context, projectId string) (*model.Project, error)
	ListAll(ctx context.Context) ([]model.Project, error)
	ListForUser(ctx context.Context, userId string) ([]model.Project, error)
	Update(ctx context.Context, projectId string, updates map[string]any) error
	Delete(ctx context.Context, projectId string) error
}

type ProjectRepo struct {
	db database.IDatabase
}

func NewProjectRepo(db database.IDatabase) IProjectRepository {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	return database.Conn(ctx, r.db).Omit("Creator", "Members").Create(p).Error
}

func (r *ProjectRepo) Get(ctx context.Context, projectId string) (*model.Project, error) {
	var p model.Project
	if err := database.Conn(ctx, r.db).Where("project_id = ?", projectId).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) GetWithRelations(ctx context.Context, projectId string) (*model.Project, error) {
	var p model.Project
	err := database.Conn(ctx, r.db).
		Preload("Creator").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Members.User").
		Where("project_id = ?", projectId).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := database.Conn(ctx, r.db).Order("id ASC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepo) ListForUser(ctx context.Context, userId string) ([]model.Project, error) {
	var projects []model.Project
	err := database.Conn(ctx, r.db).
		Where("project_id IN (?)", database.Conn(ctx, r.db).Model(&model.ProjectMember{}).
			Select("project_id").Where("user_id = ?", userId)).
		Order("id ASC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepo) Update(ctx context.Context, projectId string, updates map[string]any) error {
	return database.Conn(ctx, r.db).Model(&model.Project{}).
		Where("project_id = ?", projectId).
		Updates(updates).Error
}

func (r *ProjectRepo) Delete(ctx context.Context, projectId string) error {
	return database.Conn(ctx, r.db).Where("project_id = ?", projectId).Delete(&model.Project{}).Error
}
