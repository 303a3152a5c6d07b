package model

import "github.com/go-arcade/askflow/internal/pkg/apperr"

type ProjectRole string

const (
	ProjectRoleManager ProjectRole = "MANAGER"
	ProjectRoleMember  ProjectRole = "MEMBER"
)

func ParseProjectRole(s string) (ProjectRole, error) {
	switch r := ProjectRole(s); r {
	case ProjectRoleManager, ProjectRoleMember:
		return r, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown project role %q", s)
}

// ProjectMember (project_id, user_id) is unique
type ProjectMember struct {
	BaseModel
	MemberId  string      `gorm:"column:member_id;type:varchar(64);uniqueIndex;not null" json:"memberId"`
	ProjectId string      `gorm:"column:project_id;type:varchar(64);not null;index:idx_project_user,unique" json:"projectId"`
	UserId    string      `gorm:"column:user_id;type:varchar(64);not null;index:idx_project_user,unique;index:idx_member_user" json:"userId"`
	Role      ProjectRole `gorm:"column:role;type:varchar(16);not null" json:"role"`
	User      *User       `gorm:"foreignKey:UserId;references:UserId" json:"user,omitempty"`
}

func (ProjectMember) TableName() string {
	return "t_project_member"
}
