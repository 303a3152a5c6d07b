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
	"time"
	"unicode/utf8"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/statemachine"
)

const maxQuestionTitleLen = 255

var (
	errQuestionClosed     = apperr.Validation("question is closed and can no longer be changed")
	errCannotEditQuestion = apperr.Forbidden("only the question creator, a project manager or an admin can do this")
)

type CreateQuestionReq struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AssigneeId string     `json:"assigneeId"`
	Priority   string     `json:"priority"`
	Deadline   *time.Time `json:"deadline"`
}

// UpdateQuestionReq is a full edit; nil fields are left unchanged.
type UpdateQuestionReq struct {
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	AssigneeId    *string    `json:"assigneeId"`
	Priority      *string    `json:"priority"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clearDeadline"`
}

type QuestionFilter struct {
	Status     string
	AssigneeId string
}

type QuestionService struct {
	repos    *repo.Repositories
	authz    *Authorizer
	notifier *notify.Dispatcher
	sm       *statemachine.StateMachine[model.QuestionStatus]
}

func NewQuestionService(repos *repo.Repositories, authz *Authorizer, notifier *notify.Dispatcher) *QuestionService {
	return &QuestionService{
		repos:    repos,
		authz:    authz,
		notifier: notifier,
		sm:       statemachine.NewQuestionStateMachine(),
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("question title is required")
	}
	if utf8.RuneCountInString(title) > maxQuestionTitleLen {
		return "", apperr.Newf(apperr.KindValidation, "question title must be at most %d characters", maxQuestionTitleLen)
	}
	return title, nil
}

func (s *QuestionService) requireUser(ctx context.Context, userId string) error {
	if strings.TrimSpace(userId) == "" {
		return apperr.Validation("assigneeId is required")
	}
	if _, err := s.repos.User.Get(ctx, userId); err != nil {
		return apperr.FromStore("assignee", err)
	}
	return nil
}

// locate authorizes read access and loads the question, which must belong
// to projectId.
func (s *QuestionService) locate(ctx context.Context, identity *model.Identity, projectId, questionId string) (*ProjectAccess, *model.Question, error) {
	access, err := s.authz.CanAccessProject(ctx, identity, projectId)
	if err != nil {
		return nil, nil, err
	}
	q, err := s.repos.Question.Get(ctx, questionId)
	if err != nil {
		return nil, nil, apperr.FromStore("question", err)
	}
	if q.ProjectId != projectId {
		return nil, nil, apperr.NotFound("question not found")
	}
	return access, q, nil
}

// canEdit covers full edits and deletion: creator, manager or admin.
func canEdit(access *ProjectAccess, identity *model.Identity, q *model.Question) bool {
	return q.CreatorId == identity.Id || access.Manages(identity)
}

func (s *QuestionService) CreateQuestion(ctx context.Context, identity *model.Identity, projectId string, req *CreateQuestionReq) (*model.Question, error) {
	if _, err := s.authz.CanAccessProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	title, err := validTitle(req.Title)
	if err != nil {
		return nil, err
	}
	priority := model.PriorityMedium
	if req.Priority != "" {
		if priority, err = model.ParsePriority(req.Priority); err != nil {
			return nil, err
		}
	}
	assigneeId := strings.TrimSpace(req.AssigneeId)
	if err := s.requireUser(ctx, assigneeId); err != nil {
		return nil, err
	}

	q := &model.Question{
		QuestionId: id.GetUUID(),
		ProjectId:  projectId,
		CreatorId:  identity.Id,
		AssigneeId: assigneeId,
		Title:      title,
		Content:    req.Content,
		Priority:   priority,
		Deadline:   req.Deadline,
		Status:     model.QuestionNew,
	}
	if err := s.repos.Question.Create(ctx, q); err != nil {
		return nil, apperr.FromStore("question", err)
	}
	metrics.QuestionsCreated.Inc()
	log.WithContext(ctx).Infow("question created", "questionId", q.QuestionId, "projectId", projectId, "assigneeId", assigneeId)

	s.notifier.AfterCommit(ctx, notify.Message{
		UserId:    assigneeId,
		Type:      model.NotifyNewQuestionAssigned,
		RelatedId: q.QuestionId,
		Title:     q.Title,
	})
	return q, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, identity *model.Identity, projectId, questionId string) (*model.Question, error) {
	_, q, err := s.locate(ctx, identity, projectId, questionId)
	return q, err
}

func (s *QuestionService) ListQuestions(ctx context.Context, identity *model.Identity, projectId string, filter QuestionFilter) ([]model.Question, error) {
	if _, err := s.authz.CanAccessProject(ctx, identity, projectId); err != nil {
		return nil, err
	}
	f := repo.QuestionFilter{AssigneeId: strings.TrimSpace(filter.AssigneeId)}
	if filter.Status != "" {
		status, err := model.ParseQuestionStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		f.Status = status
	}
	list, err := s.repos.Question.List(ctx, projectId, f)
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}
	return list, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, identity *model.Identity, projectId, questionId string, req *UpdateQuestionReq) (*model.Question, error) {
	access, q, err := s.locate(ctx, identity, projectId, questionId)
	if err != nil {
		return nil, err
	}
	if !canEdit(access, identity, q) {
		return nil, errCannotEditQuestion
	}
	if q.Status.IsClosed() {
		return nil, errQuestionClosed
	}

	updates := make(map[string]any)
	if req.Title != nil {
		title, err := validTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Priority != nil {
		priority, err := model.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		updates["priority"] = priority
	}
	switch {
	case req.ClearDeadline:
		updates["deadline"] = nil
		updates["deadline_notified_at"] = nil
	case req.Deadline != nil:
		updates["deadline"] = *req.Deadline
		updates["deadline_notified_at"] = nil
	}
	reassigned := false
	if req.AssigneeId != nil && strings.TrimSpace(*req.AssigneeId) != q.AssigneeId {
		assigneeId := strings.TrimSpace(*req.AssigneeId)
		if err := s.requireUser(ctx, assigneeId); err != nil {
			return nil, err
		}
		updates["assignee_id"] = assigneeId
		reassigned = true
	}
	if len(updates) == 0 {
		return nil, apperr.Validation("nothing to update")
	}

	// closed is re-checked under the transaction
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		current, err := s.repos.Question.Get(ctx, questionId)
		if err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return errQuestionClosed
		}
		return s.repos.Question.Update(ctx, questionId, updates)
	})
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}

	updated, err := s.repos.Question.Get(ctx, questionId)
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}
	if reassigned {
		s.notifier.AfterCommit(ctx, notify.Message{
			UserId:    updated.AssigneeId,
			Type:      model.NotifyNewQuestionAssigned,
			RelatedId: updated.QuestionId,
			Title:     updated.Title,
		})
	}
	return updated, nil
}

// ChangeStatus applies one transition of the status table. The assignee
// may move the question as well as those who can edit it.
func (s *QuestionService) ChangeStatus(ctx context.Context, identity *model.Identity, projectId, questionId, status string) (*model.Question, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	target, err := model.ParseQuestionStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}
	access, q, err := s.locate(ctx, identity, projectId, questionId)
	if err != nil {
		return nil, err
	}
	if q.AssigneeId != identity.Id && !canEdit(access, identity, q) {
		return nil, apperr.Forbidden("only the assignee, the question creator, a project manager or an admin can change the status")
	}
	if q.Status.IsClosed() {
		return nil, errQuestionClosed
	}
	if err := s.sm.Validate(q.Status, target); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "cannot move question from %s to %s", q.Status, target)
	}

	moved, err := s.repos.Question.UpdateStatus(ctx, questionId, q.Status, target)
	if err != nil {
		return nil, apperr.FromStore("question", err)
	}
	if !moved {
		return nil, apperr.Conflict("question status changed concurrently, reload and retry")
	}
	metrics.QuestionTransitions.WithLabelValues(string(q.Status), string(target)).Inc()
	log.WithContext(ctx).Infow("question status changed", "questionId", questionId, "from", q.Status, "to", target, "by", identity.Id)

	q.Status = target
	if target == model.QuestionClosed {
		s.notifier.AfterCommit(ctx, notify.Message{
			UserId:    q.AssigneeId,
			Type:      model.NotifyAnsweredQuestionClosed,
			RelatedId: q.QuestionId,
			Title:     q.Title,
		})
	}
	return q, nil
}

// DeleteQuestion removes the question with its form and answers.
func (s *QuestionService) DeleteQuestion(ctx context.Context, identity *model.Identity, projectId, questionId string) error {
	access, q, err := s.locate(ctx, identity, projectId, questionId)
	if err != nil {
		return err
	}
	if !canEdit(access, identity, q) {
		return errCannotEditQuestion
	}
	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Answer.DeleteByQuestions(ctx, questionId); err != nil {
			return err
		}
		if err := s.repos.AnswerForm.DeleteByQuestions(ctx, questionId); err != nil {
			return err
		}
		return s.repos.Question.Delete(ctx, questionId)
	})
	if err != nil {
		return apperr.FromStore("question", err)
	}
	log.WithContext(ctx).Infow("question deleted", "questionId", questionId, "by", identity.Id)
	return nil
}

// InProject reports NotFound unless questionId belongs to projectId. It
// guards routes that nest a question under a project.
func (s *QuestionService) InProject(ctx context.Context, projectId, questionId string) error {
	q, err := s.repos.Question.Get(ctx, questionId)
	if err != nil {
		return apperr.FromStore("question", err)
	}
	if q.ProjectId != projectId {
		return apperr.NotFound("question not found")
	}
	return nil
}
