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
	"strconv"
	"strings"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"gorm.io/gorm"
)

var errFormChanged = apperr.Conflict("the answer form changed while the answer was submitted, reload it and retry")

type FormDataInput struct {
	FieldId string `json:"fieldId"`
	Value   string `json:"value"`
}

type PostAnswerReq struct {
	Content     string          `json:"content"`
	MediaFileId *string         `json:"mediaFileId"`
	FormData    []FormDataInput `json:"formData"`
}

type AnswerService struct {
	repos    *repo.Repositories
	authz    *Authorizer
	notifier *notify.Dispatcher
}

func NewAnswerService(repos *repo.Repositories, authz *Authorizer, notifier *notify.Dispatcher) *AnswerService {
	return &AnswerService{repos: repos, authz: authz, notifier: notifier}
}

func (s *AnswerService) ListAnswers(ctx context.Context, identity *model.Identity, questionId string) ([]model.Answer, error) {
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
	list, err := s.repos.Answer.ListByQuestion(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("answer", err)
	}
	return list, nil
}

// PostAnswer records an answer from the assignee (or an admin). Posting on
// NEW or IN_PROGRESS moves the question to PENDING_APPROVAL.
func (s *AnswerService) PostAnswer(ctx context.Context, identity *model.Identity, questionId string, req *PostAnswerReq) (*model.Answer, error) {
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
	if q.AssigneeId != identity.Id && !identity.IsAdmin() {
		return nil, apperr.Forbidden("only the assignee or an admin can answer this question")
	}
	if q.Status.IsClosed() {
		return nil, errQuestionClosed
	}

	answer := &model.Answer{
		AnswerId:   id.GetUUID(),
		QuestionId: questionId,
		AuthorId:   identity.Id,
		Content:    strings.TrimSpace(req.Content),
	}
	if req.MediaFileId != nil && strings.TrimSpace(*req.MediaFileId) != "" {
		fileId := strings.TrimSpace(*req.MediaFileId)
		if err := s.ownedMedia(ctx, identity, fileId, "attachment"); err != nil {
			return nil, err
		}
		answer.MediaFileId = &fileId
	}

	var validated *model.AnswerForm
	form, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
	switch {
	case err == nil:
		validated = form
		if answer.FormData, err = s.checkFormData(ctx, identity, form, req.FormData); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if len(req.FormData) > 0 {
			return nil, apperr.Validation("this question has no answer form")
		}
		if answer.Content == "" && answer.MediaFileId == nil {
			return nil, apperr.Validation("answer content is required")
		}
	default:
		return nil, apperr.FromStore("answer form", err)
	}

	var from model.QuestionStatus
	advanced := false
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		current, err := s.repos.Question.Get(ctx, questionId)
		if err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return errQuestionClosed
		}
		if err := s.formUnchanged(ctx, questionId, validated); err != nil {
			return err
		}
		if err := s.repos.Answer.Create(ctx, answer); err != nil {
			return err
		}
		if !current.Status.AcceptsAnswerTransition() {
			return nil
		}
		from = current.Status
		advanced, err = s.repos.Question.UpdateStatus(ctx, questionId, current.Status, model.QuestionPendingApproval)
		return err
	})
	if err != nil {
		return nil, apperr.FromStore("answer", err)
	}

	metrics.AnswersPosted.Inc()
	if advanced {
		metrics.QuestionTransitions.WithLabelValues(string(from), string(model.QuestionPendingApproval)).Inc()
	}
	log.WithContext(ctx).Infow("answer posted", "answerId", answer.AnswerId, "questionId", questionId, "authorId", identity.Id)

	s.notifier.AfterCommit(ctx, notify.Message{
		UserId:    q.CreatorId,
		Type:      model.NotifyNewAnswerPosted,
		RelatedId: q.QuestionId,
		Title:     q.Title,
	})
	return answer, nil
}

// formUnchanged rejects the answer when the form was replaced, created or
// deleted after the submission was validated against it.
func (s *AnswerService) formUnchanged(ctx context.Context, questionId string, validated *model.AnswerForm) error {
	current, err := s.repos.AnswerForm.GetByQuestion(ctx, questionId)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		current = nil
	case err != nil:
		return err
	}
	if !sameFields(validated, current) {
		return errFormChanged
	}
	return nil
}

func sameFields(a, b *model.AnswerForm) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].FieldId != b.Fields[i].FieldId {
			return false
		}
	}
	return true
}

func (s *AnswerService) ownedMedia(ctx context.Context, identity *model.Identity, fileId, what string) error {
	f, err := s.repos.MediaFile.Get(ctx, fileId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.KindValidation, "%s references unknown media file %s", what, fileId)
	}
	if err != nil {
		return apperr.FromStore("media file", err)
	}
	if f.UploaderId != identity.Id {
		return apperr.Newf(apperr.KindValidation, "%s references a media file you did not upload", what)
	}
	return nil
}

// checkFormData validates a submission against the form and returns the
// rows to store, in field order.
func (s *AnswerService) checkFormData(ctx context.Context, identity *model.Identity, form *model.AnswerForm, input []FormDataInput) ([]model.AnswerFormData, error) {
	values := make(map[string]string, len(input))
	for _, in := range input {
		fieldId := strings.TrimSpace(in.FieldId)
		if _, dup := values[fieldId]; dup {
			return nil, apperr.Newf(apperr.KindValidation, "field %s submitted twice", fieldId)
		}
		values[fieldId] = in.Value
	}

	rows := make([]model.AnswerFormData, 0, len(form.Fields))
	for i := range form.Fields {
		field := &form.Fields[i]
		value, ok := values[field.FieldId]
		delete(values, field.FieldId)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			if field.IsRequired {
				return nil, apperr.Newf(apperr.KindValidation, "field %q is required", field.Label)
			}
			continue
		}

		row := model.AnswerFormData{FieldId: field.FieldId, Label: field.Label, Value: value}
		switch field.FieldType {
		case model.FieldNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return nil, apperr.Newf(apperr.KindValidation, "field %q must be a number", field.Label)
			}
		case model.FieldRadio:
			if !field.HasOption(value) {
				return nil, apperr.Newf(apperr.KindValidation, "field %q must be one of its options", field.Label)
			}
		case model.FieldFile:
			if err := s.ownedMedia(ctx, identity, value, "field "+strconv.Quote(field.Label)); err != nil {
				return nil, err
			}
			fileId := value
			row.MediaFileId = &fileId
		case model.FieldText, model.FieldTextarea:
		default:
			return nil, apperr.Newf(apperr.KindValidation, "field %q has unknown type %s", field.Label, field.FieldType)
		}
		rows = append(rows, row)
	}
	for fieldId := range values {
		return nil, apperr.Newf(apperr.KindValidation, "unknown form field %s", fieldId)
	}
	return rows, nil
}
