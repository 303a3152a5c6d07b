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

type Answer struct {
	BaseModel
	AnswerId    string           `gorm:"column:answer_id;type:varchar(64);uniqueIndex;not null" json:"answerId"`
	QuestionId  string           `gorm:"column:question_id;type:varchar(64);index;not null" json:"questionId"`
	AuthorId    string           `gorm:"column:author_id;type:varchar(64);index;not null" json:"authorId"`
	Content     string           `gorm:"column:content;type:text" json:"content"`
	MediaFileId *string          `gorm:"column:media_file_id;type:varchar(64);index" json:"mediaFileId,omitempty"`
	FormData    []AnswerFormData `gorm:"foreignKey:AnswerId;references:AnswerId" json:"formData,omitempty"`
}

func (Answer) TableName() string {
	return "t_answer"
}

// AnswerFormData is one submitted value. Label is copied from the field so
// the answer stays readable if the schema is later replaced.
type AnswerFormData struct {
	BaseModel
	AnswerId    string  `gorm:"column:answer_id;type:varchar(64);index;not null" json:"-"`
	FieldId     string  `gorm:"column:field_id;type:varchar(64);not null" json:"fieldId"`
	Label       string  `gorm:"column:label;type:varchar(255)" json:"label"`
	Value       string  `gorm:"column:value;type:text" json:"value"`
	MediaFileId *string `gorm:"column:media_file_id;type:varchar(64);index" json:"mediaFileId,omitempty"`
}

func (AnswerFormData) TableName() string {
	return "t_answer_form_data"
}
