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

package model

import (
	"time"

	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/pkg/statemachine"
)

type QuestionStatus = statemachine.QuestionStatus

const (
	QuestionNew             = statemachine.QuestionNew
	QuestionInProgress      = statemachine.QuestionInProgress
	QuestionPendingApproval = statemachine.QuestionPendingApproval
	QuestionClosed          = statemachine.QuestionClosed
)

func ParseQuestionStatus(s string) (QuestionStatus, error) {
	switch st := QuestionStatus(s); st {
	case QuestionNew, QuestionInProgress, QuestionPendingApproval, QuestionClosed:
		return st, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown question status %q", s)
}

type Priority string

const (
	PriorityLowest  Priority = "LOWEST"
	PriorityLow     Priority = "LOW"
	PriorityMedium  Priority = "MEDIUM"
	PriorityHigh    Priority = "HIGH"
	PriorityHighest Priority = "HIGHEST"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLowest, PriorityLow, PriorityMedium, PriorityHigh, PriorityHighest:
		return p, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown priority %q", s)
}

type Question struct {
	BaseModel
	QuestionId         string         `gorm:"column:question_id;type:varchar(64);uniqueIndex;not null" json:"questionId"`
	ProjectId          string         `gorm:"column:project_id;type:varchar(64);index;not null" json:"projectId"`
	CreatorId          string         `gorm:"column:creator_id;type:varchar(64);index;not null" json:"creatorId"`
	AssigneeId         string         `gorm:"column:assignee_id;type:varchar(64);index;not null" json:"assigneeId"`
	Title              string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content            string         `gorm:"column:content;type:text" json:"content"`
	Priority           Priority       `gorm:"column:priority;type:varchar(16);not null" json:"priority"`
	Deadline           *time.Time     `gorm:"column:deadline;index" json:"deadline,omitempty"`
	Status             QuestionStatus `gorm:"column:status;type:varchar(32);index;not null" json:"status"`
	DeadlineNotifiedAt *time.Time     `gorm:"column:deadline_notified_at" json:"deadlineNotifiedAt,omitempty"`
}

func (Question) TableName() string {
	return "t_question"
}
