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

type IAnswerFormRepository interface {
	// GetByQuestion returns the form with its fields in display order.
	GetByQuestion(ctx context.Context, questionId string) (*model.AnswerForm, error)
	Create(ctx context.Context, form *model.AnswerForm) error
	CreateFields(ctx context.Context, fields []model.AnswerFormField) error
	DeleteFields(ctx context.Context, formId string) error
	Delete(ctx context.Context, formId string) error
	DeleteByQuestions(ctx context.Context, questionIds ...string) error
}

type AnswerFormRepo struct {
	db database.IDatabase
}

func NewAnswerFormRepo(db database.IDatabase) IAnswerFormRepository {
	return &AnswerFormRepo{db: db}
}

func (r *AnswerFormRepo) GetByQuestion(ctx context.Context, questionId string) (*model.AnswerForm, error) {
	var form model.AnswerForm
	err := database.Conn(ctx, r.db).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("field_order ASC")
		}).
		Where("question_id = ?", questionId).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *AnswerFormRepo) Create(ctx context.Context, form *model.AnswerForm) error {
	return database.Conn(ctx, r.db).Omit("Fields").Create(form).Error
}

func (r *AnswerFormRepo) CreateFields(ctx context.Context, fields []model.AnswerFormField) error {
	if len(fields) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&fields).Error
}

func (r *AnswerFormRepo) DeleteFields(ctx context.Context, formId string) error {
	return database.Conn(ctx, r.db).Where("form_id = ?", formId).Delete(&model.AnswerFormField{}).Error
}

func (r *AnswerFormRepo) Delete(ctx context.Context, formId string) error {
	return database.Conn(ctx, r.db).Where("form_id = ?", formId).Delete(&model.AnswerForm{}).Error
}

func (r *AnswerFormRepo) DeleteByQuestions(ctx context.Context, questionIds ...string) error {
	if len(questionIds) == 0 {
		return nil
	}
	conn := database.Conn(ctx, r.db)
	var formIds []string
	if err := conn.Model(&model.AnswerForm{}).
		Where("question_id IN ?", questionIds).
		Pluck("form_id", &formIds).Error; err != nil {
		return err
	}
	if len(formIds) == 0 {
		return nil
	}
	if err := conn.Where("form_id IN ?", formIds).Delete(&model.AnswerFormField{}).Error; err != nil {
		return err
	}
	return conn.Where("form_id IN ?", formIds).Delete(&model.AnswerForm{}).Error
}
