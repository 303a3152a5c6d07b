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

type NotificationType string

const (
	NotifyNewQuestionAssigned       NotificationType = "NEW_QUESTION_ASSIGNED"
	NotifyNewAnswerPosted           NotificationType = "NEW_ANSWER_POSTED"
	NotifyAnsweredQuestionClosed    NotificationType = "ANSWERED_QUESTION_CLOSED"
	NotifyAssigneeDeadlineExceeded  NotificationType = "ASSIGNEE_DEADLINE_EXCEEDED"
	NotifyRequesterDeadlineExceeded NotificationType = "REQUESTER_DEADLINE_EXCEEDED"
)

// Notification rows are append-only apart from IsRead
type Notification struct {
	BaseModel
	NotificationId string           `gorm:"column:notification_id;type:varchar(64);uniqueIndex;not null" json:"notificationId"`
	UserId         string           `gorm:"column:user_id;type:varchar(64);index:idx_notification_user_read;not null" json:"userId"`
	Type           NotificationType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	Message        string           `gorm:"column:message;type:text;not null" json:"message"`
	RelatedId      *string          `gorm:"column:related_id;type:varchar(64)" json:"relatedId,omitempty"`
	IsRead         bool             `gorm:"column:is_read;index:idx_notification_user_read;not null;default:false" json:"isRead"`
}

func (Notification) TableName() string {
	return "t_notification"
}
