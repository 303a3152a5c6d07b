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

package repo

import (
	"context"

	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/google/wire"
	"gorm.io/gorm"
)

var ProviderSet = wire.NewSet(NewRepositories)

type Repositories struct {
	db            database.IDatabase
	User          IUserRepository
	Project       IProjectRepository
	ProjectMember IProjectMemberRepository
	Invitation    IInvitationRepository
	Question      IQuestionRepository
	AnswerForm    IAnswerFormRepository
	Answer        IAnswerRepository
	MediaFile     IMediaFileRepository
	Notification  INotificationRepository
}

func NewRepositories(db database.IDatabase, cache cache.ICache) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepo(db, cache),
		Project:       NewProjectRepo(db),
		ProjectMember: NewProjectMemberRepo(db),
		Invitation:    NewInvitationRepo(db),
		Question:      NewQuestionRepo(db),
		AnswerForm:    NewAnswerFormRepo(db),
		Answer:        NewAnswerRepo(db),
		MediaFile:     NewMediaFileRepo(db),
		Notification:  NewNotificationRepo(db),
	}
}

// InTx runs fn in one transaction; repository calls made with the ctx passed
// to fn join it.
func (r *Repositories) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.InTx(ctx, fn)
}

func (r *Repositories) GetDB() database.IDatabase {
	return r.db
}

func Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
