package model

import (
	"time"

	"github.com/go-arcade/askflow/pkg/database"
)

type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func init() {
	database.RegisterModels(
		&User{},
		&Project{},
		&ProjectMember{},
		&Invitation{},
		&Question{},
		&AnswerForm{},
		&AnswerFormField{},
		&Answer{},
		&AnswerFormData{},
		&MediaFile{},
		&Notification{},
	)
}
