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
	"gorm.io/datatypes"

	"github.com/go-arcade/askflow/internal/pkg/apperr"
)

type FieldType string

const (
	FieldText     FieldType = "TEXT"
	FieldNumber   FieldType = "NUMBER"
	FieldTextarea FieldType = "TEXTAREA"
	FieldRadio    FieldType = "RADIO"
	FieldFile     FieldType = "FILE"
)

// ParseFieldType rejects unknown tags instead of defaulting them
func ParseFieldType(s string) (FieldType, error) {
	switch ft := FieldType(s); ft {
	case FieldText, FieldNumber, FieldTextarea, FieldRadio, FieldFile:
		return ft, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown field type %q", s)
}

// AnswerForm is the 1:1 schema attached to a question
type AnswerForm struct {
	BaseModel
	FormId     string            `gorm:"column:form_id;type:varchar(64);uniqueIndex;not null" json:"formId"`
	QuestionId string            `gorm:"column:question_id;type:varchar(64);uniqueIndex;not null" json:"questionId"`
	Fields     []AnswerFormField `gorm:"foreignKey:FormId;references:FormId" json:"fields"`
}

func (AnswerForm) TableName() string {
	return "t_answer_form"
}

type AnswerFormField struct {
	BaseModel
	FieldId    string                      `gorm:"column:field_id;type:varchar(64);uniqueIndex;not null" json:"fieldId"`
	FormId     string                      `gorm:"column:form_id;type:varchar(64);index;not null" json:"formId"`
	Label      string                      `gorm:"column:label;type:varchar(255);not null" json:"label"`
	FieldType  FieldType                   `gorm:"column:field_type;type:varchar(16);not null" json:"fieldType"`
	Options    datatypes.JSONSlice[string] `gorm:"column:options" json:"options"`
	IsRequired bool                        `gorm:"column:is_required;not null;default:false" json:"isRequired"`
	Order      int                         `gorm:"column:field_order;not null" json:"order"`
}

func (AnswerFormField) TableName() string {
	return "t_answer_form_field"
}

func (f *AnswerFormField) HasOption(value string) bool {
	for _, o := range f.Options {
		if o == value {
			return true
		}
	}
	return false
}
