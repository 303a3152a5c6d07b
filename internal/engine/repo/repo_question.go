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

type QuestionFilter struct {
	Status     model.QuestionStatus
	AssigneeId string
}

type IQuestionRepository interface {
	Create(ctx context.Context, q *model.Question) error
	Get(ctx context.Context, questionId string) (*model.Question, error)
	List(ctx context.Context, projectId string, filter QuestionFilter) ([]model.Question, error)
	Update(ctx context.Context, questionId string, updates map[string]any) error
	// UpdateStatus moves the question from one status to another; false
	// means its status was no longer from.
	UpdateStatus(ctx context.Context, questionId string, from, to model.QuestionStatus) (bool, error)
	Delete(ctx context.Context, questionId string) error
	ListIdsByProject(ctx context.Context, projectId string) ([]string, error)
	DeleteByProject(ctx context.Context, projectId string) error
	// ListOverdue returns open questions past their deadline that have not
	// been reported yet.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.Question, error)
	// MarkDeadlineNotified stamps the question once; false means it was
	// already stamped or closed meanwhile.
	MarkDeadlineNotified(ctx context.Context, questionId string, now time.Time) (bool, error)
}

type QuestionRepo struct {
	db database.IDatabase
}

func NewQuestionRepo(db database.IDatabase) IQuestionRepository {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) error {
	return database.Conn(ctx, r.db).Create(q).Error
}

func (r *QuestionRepo) Get(ctx context.Context, questionId string) (*model.Question, error) {
	var q model.Question
	if err := database.Conn(ctx, r.db).Where("question_id = ?", questionId).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepo) List(ctx context.Context, projectId string, filter QuestionFilter) ([]model.Question, error) {
	q := database.Conn(ctx, r.db).Where("project_id = ?", projectId)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssigneeId != "" {
		q = q.Where("assignee_id = ?", filter.AssigneeId)
	}
	var list []model.Question
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

func (r *QuestionRepo) Update(ctx context.Context, questionId string, updates map[string]any) error {
	return database.Conn(ctx, r.db).Model(&model.Question{}).
		Where("question_id = ?", questionId).
		Updates(updates).Error
}

func (r *QuestionRepo) UpdateStatus(ctx context.Context, questionId string, from, to model.QuestionStatus) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&model.Question{}).
		Where("question_id = ? AND status = ?", questionId, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, questionId string) error {
	return database.Conn(ctx, r.db).Where("question_id = ?", questionId).Delete(&model.Question{}).Error
}

func (r *QuestionRepo) ListIdsByProject(ctx context.Context, projectId string) ([]string, error) {
	var ids []string
	err := database.Conn(ctx, r.db).Model(&model.Question{}).
		Where("project_id = ?", projectId).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *QuestionRepo) DeleteByProject(ctx context.Context, projectId string) error {
	return database.Conn(ctx, r.db).Where("project_id = ?", projectId).Delete(&model.Question{}).Error
}

func (r *QuestionRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.Question, error) {
	q := database.Conn(ctx, r.db).
		Where("deadline IS NOT NULL AND deadline < ?", now).
		Where("status <> ?", model.QuestionClosed).
		Where("deadline_notified_at IS NULL").
		Order("deadline ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []model.Question
	err := q.Find(&list).Error
	return list, err
}

func (r *QuestionRepo) MarkDeadlineNotified(ctx context.Context, questionId string, now time.Time) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&model.Question{}).
		Where("question_id = ? AND deadline_notified_at IS NULL AND status <> ?", questionId, model.QuestionClosed).
		Update("deadline_notified_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
