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

// Project is the unit of access control. Creator and Members are preloaded
// by the authorizer.
type Project struct {
	BaseModel
	ProjectId   string          `gorm:"column:project_id;type:varchar(64);uniqueIndex;not null" json:"projectId"`
	CreatorId   string          `gorm:"column:creator_id;type:varchar(64);index;not null" json:"creatorId"`
	Name        string          `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Creator     *User           `gorm:"foreignKey:CreatorId;references:UserId" json:"creator,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectId;references:ProjectId" json:"members,omitempty"`
}

func (Project) TableName() string {
	return "t_project"
}

func (p *Project) IsCreator(userId string) bool {
	return p != nil && p.CreatorId == userId
}
