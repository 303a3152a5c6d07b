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

type IAnswerRepository interface {
	// Create inserts the answer together with its form data rows.
	Create(ctx context.Context, a *model.Answer) error
	ListByQuestion(ctx context.Context, questionId string) ([]model.Answer, error)
	CountByQuestion(ctx context.Context, questionId string) (int64, error)
	DeleteByQuestions(ctx context.Context, questionIds ...string) error
}

type AnswerRepo struct {
	db database.IDatabase
}

func NewAnswerRepo(db database.IDatabase) IAnswerRepository {
	return &AnswerRepo{db: db}
}

func (r *AnswerRepo) Create(ctx context.Context, a *model.Answer) error {
	for i := range a.FormData {
		a.FormData[i].AnswerId = a.AnswerId
	}
	return database.Conn(ctx, r.db).Create(a).Error
}

func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionId string) ([]model.Answer, error) {
	var list []model.Answer
	err := database.Conn(ctx, r.db).
		Preload("FormData").
		Where("question_id = ?", questionId).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *AnswerRepo) CountByQuestion(ctx context.Context, questionId string) (int64, error) {
	return Count(database.Conn(ctx, r.db).Model(&model.Answer{}).Where("question_id = ?", questionId))
}

func (r *AnswerRepo) DeleteByQuestions(ctx context.Context, questionIds ...string) error {
	if len(questionIds) == 0 {
		return nil
	}
	conn := database.Conn(ctx, r.db)
	var answerIds []string
	if err := conn.Model(&model.Answer{}).
		Where("question_id IN ?", questionIds).
		Pluck("answer_id", &answerIds).Error; err != nil {
		return err
	}
	if len(answerIds) == 0 {
		return nil
	}
	if err := conn.Where("answer_id IN ?", answerIds).Delete(&model.AnswerFormData{}).Error; err != nil {
		return err
	}
	return conn.Where("answer_id IN ?", answerIds).Delete(&model.Answer{}).Error
}
