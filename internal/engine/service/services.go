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
	"time"

	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/storage"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewServices,
	ProvideDeadlineChecker,
)

type Services struct {
	Authorizer   *Authorizer
	Project      *ProjectService
	Member       *MemberService
	Invitation   *InvitationService
	Question     *QuestionService
	Answer       *AnswerService
	Form         *FormService
	Media        *MediaService
	Notification *NotificationService
}

func NewServices(repos *repo.Repositories, notifier *notify.Dispatcher, blobs storage.Provider, storageConf storage.Storage) *Services {
	authz := NewAuthorizer(repos)
	return &Services{
		Authorizer:   authz,
		Project:      NewProjectService(repos, authz),
		Member:       NewMemberService(repos, authz),
		Invitation:   NewInvitationService(repos, authz, DefaultInvitationTTL),
		Question:     NewQuestionService(repos, authz, notifier),
		Answer:       NewAnswerService(repos, authz, notifier),
		Form:         NewFormService(repos, authz),
		Media:        NewMediaService(repos, blobs, storageConf.Expiry()),
		Notification: NewNotificationService(repos),
	}
}

// clock is swapped in tests.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
