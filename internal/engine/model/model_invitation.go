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
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// Invitation asks an email address to join a project
type Invitation struct {
	BaseModel
	InvitationId string           `gorm:"column:invitation_id;type:varchar(64);uniqueIndex;not null" json:"invitationId"`
	ProjectId    string           `gorm:"column:project_id;type:varchar(64);index;not null" json:"projectId"`
	Email        string           `gorm:"column:email;type:varchar(255);index;not null" json:"email"`
	UserId       *string          `gorm:"column:user_id;type:varchar(64)" json:"userId,omitempty"`
	InviterId    string           `gorm:"column:inviter_id;type:varchar(64);not null" json:"inviterId"`
	Role         ProjectRole      `gorm:"column:role;type:varchar(16);not null" json:"role"`
	Status       InvitationStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	Token        string           `gorm:"column:token;type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt    time.Time        `gorm:"column:expires_at;not null" json:"expiresAt"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

// Lapsed reports a PENDING invitation whose deadline has passed but which
// has not been rewritten to EXPIRED yet.
func (i *Invitation) Lapsed(now time.Time) bool {
	return i.Status == InvitationPending && !now.Before(i.ExpiresAt)
}

// Live reports an invitation that can still be answered.
func (i *Invitation) Live(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}
