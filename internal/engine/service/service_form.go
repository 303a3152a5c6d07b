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
	"github.com/go-arcade/askflow/pkg/metrics"
	"gorm.io/gorm"
)

var (
	errCannotEditForm = apperr.Forbidden("only the question creator or an admin can change its answer form")
	errFormFrozen     = apperr.Validation("the question already has answers, its form can no longer change")
)

// FieldInput is one submitted form field. Its position in the submitted
// list becomes its order.
type FieldInput struct {
	Label      string   `json:"label"`
	FieldType  string   `json:"fieldType"`
	Options    []string `json:"options"`
	IsRequired bool     `json:"isRequired"`
}

type FormService struct {
	repos *repo.Repositories
	authz *Authorizer
}

func NewFormService(repos *repo.Repositories, authz *Authorizer) *FormService {
	return &FormService{repos: repos, authz: authz}
}

func (s *FormService) GetForm(ctx context.Context, identity *model.Identity, questionId string) (*model.AnswerForm, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	q, err := s.repos.Question.Get(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}
	if _, err := s.authz.CanAccessProject(ctx, identity, q.ProjectId); err != nil {
		return nil, err
	}
	form, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("answer form", err)
	}
	return form, nil
}

// editable loads the question and checks the form may be changed by
// identity: NotFound, then Forbidden, then Validation for a closed question.
func (s *FormService) editable(ctx context.Context, identity *model.Identity, questionId string) (*model.Question, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	q, err := s.repos.Question.Get(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}
	if q.CreatorId != identity.Id && !identity.IsAdmin() {
		return nil, errCannotEditForm
	}
	return q, nil
}

func buildFields(input []FieldInput) ([]model.AnswerFormField, error) {
	if len(input) == 0 {
		return nil, apperr.Validation("at least one field is required")
	}
	fields := make([]model.AnswerFormField, 0, len(input))
	for i, in := range input {
		label := strings.TrimSpace(in.Label)
		if label == "" {
			return nil, apperr.Newf(apperr.KindValidation, "field %d: label is required", i)
		}
		fieldType, err := model.ParseFieldType(strings.TrimSpace(in.FieldType))
		if err != nil {
			return nil, apperr.Newf(apperr.KindValidation, "field %d: unknown field type %q", i, in.FieldType)
		}
		field := model.AnswerFormField{
			Label:      label,
			FieldType:  fieldType,
			IsRequired: in.IsRequired,
			Order:      i,
		}
		if fieldType == model.FieldRadio {
			options := make([]string, 0, len(in.Options))
			for _, o := range in.Options {
				if o = strings.TrimSpace(o); o != "" {
					options = append(options, o)
				}
			}
			if len(options) == 0 {
				return nil, apperr.Newf(apperr.KindValidation, "field %d: a RADIO field needs at least one option", i)
			}
			field.Options = options
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// PutForm replaces the question's form schema. Existing fields are deleted
// and the submitted ones inserted with fresh ids, all in one transaction.
func (s *FormService) PutForm(ctx context.Context, identity *model.Identity, questionId string, input []FieldInput) (*model.AnswerForm, error) {
	q, err := s.editable(ctx, identity, questionId)
	if err != nil {
		return nil, err
	}
	if q.Status.IsClosed() {
		return nil, errQuestionClosed
	}
	fields, err := buildFields(input)
	if err != nil {
		return nil, err
	}

	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		current, err := s.repos.Question.Get(ctx, questionId)
		if err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return errQuestionClosed
		}
		answers, err := s.repos.Answer.CountByQuestion(ctx, questionId)
		if err != nil {
			return err
		}
		if answers > 0 {
			metrics.DeletionGuardRejections.WithLabelValues("answer_form").Inc()
			return errFormFrozen
		}

		form, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			form = &model.AnswerForm{FormId: id.GetUUID(), QuestionId: questionId}
			if err := s.repos.AnswerForm.Create(ctx, form); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := s.repos.AnswerForm.DeleteFields(ctx, form.FormId); err != nil {
				return err
			}
		}

		for i := range fields {
			fields[i].FieldId = id.GetUUID()
			fields[i].FormId = form.FormId
		}
		return s.repos.AnswerForm.CreateFields(ctx, fields)
	})
	if err != nil {
		return nil, apperr.FromStore("answer form", err)
	}

	log.WithContext(ctx).Infow("answer form replaced", "questionId", questionId, "fields", len(fields), "by", identity.Id)
	form, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("answer form", err)
	}
	return form, nil
}

// DeleteForm removes the form and its fields while nothing was answered.
func (s *FormService) DeleteForm(ctx context.Context, identity *model.Identity, questionId string) error {
	q, err := s.editable(ctx, identity, questionId)
	if err != nil {
		return err
	}
	form, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
	if err != nil {
		return apperr.FromStore("answer form", err)
	}
	if q.Status.IsClosed() {
		return errQuestionClosed
	}

	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		answers, err := s.repos.Answer.CountByQuestion(ctx, questionId)
		if err != nil {
			return err
		}
		if answers > 0 {
			metrics.DeletionGuardRejections.WithLabelValues("answer_form").Inc()
			return apperr.Newf(apperr.KindValidation, "the question has %d answer(s), its form cannot be deleted", answers)
		}
		if err := s.repos.AnswerForm.DeleteFields(ctx, form.FormId); err != nil {
			return err
		}
		return s.repos.AnswerForm.Delete(ctx, form.FormId)
	})
	if err != nil {
		return apperr.FromStore("answer form", err)
	}
	log.WithContext(ctx).Infow("answer form deleted", "questionId", questionId, "by", identity.Id)
	return nil
}
