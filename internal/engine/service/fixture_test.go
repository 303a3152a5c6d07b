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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/internal/pkg/notify/template"
	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobs struct {
	mu      sync.Mutex
	deleted []string
	failDel error
}

func (f *fakeBlobs) PresignPut(_ context.Context, objectKey, _ string, expires time.Duration) (string, error) {
	return "https://blobs.test/" + objectKey + "?X-Amz-Expires=" + expires.String(), nil
}

func (f *fakeBlobs) Delete(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return f.failDel
}

func (f *fakeBlobs) ObjectURL(objectKey string) string {
	return "https://blobs.test/" + objectKey
}

var _ storage.Provider = (*fakeBlobs)(nil)

// answerFormRepo wraps the form store so a test can fail field inserts or
// change the stored form right after a read.
type answerFormRepo struct {
	repo.IAnswerFormRepository
	failCreateFields error
	afterGet         func(ctx context.Context)
}

func (r *answerFormRepo) CreateFields(ctx context.Context, fields []model.AnswerFormField) error {
	if r.failCreateFields != nil {
		return r.failCreateFields
	}
	return r.IAnswerFormRepository.CreateFields(ctx, fields)
}

func (r *answerFormRepo) GetByQuestion(ctx context.Context, questionId string) (*model.AnswerForm, error) {
	form, err := r.IAnswerFormRepository.GetByQuestion(ctx, questionId)
	if hook := r.afterGet; hook != nil {
		r.afterGet = nil
		hook(ctx)
	}
	return form, err
}

func (f *fixture) wrapAnswerForms() *answerFormRepo {
	w := &answerFormRepo{IAnswerFormRepository: f.repos.AnswerForm}
	f.repos.AnswerForm = w
	return w
}

type fixture struct {
	repos      *repo.Repositories
	svc        *Services
	blobs      *fakeBlobs
	dispatcher *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m, err := database.NewManager(database.Database{
		Driver:      database.DriverSQLite,
		SQLite:      database.SQLiteConfig{DSN: ":memory:"},
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	repos := repo.NewRepositories(database.NewDatabaseAdapter(m), cache.NewFastCache(1<<20))
	templates, err := template.NewTemplateEngine()
	require.NoError(t, err)
	dispatcher := notify.NewDispatcher(repos.Notification, templates, notify.NewNotifyManager(), notify.Config{})

	blobs := &fakeBlobs{}
	return &fixture{
		repos:      repos,
		svc:        NewServices(repos, dispatcher, blobs, storage.Storage{PresignExpiry: 60}),
		blobs:      blobs,
		dispatcher: dispatcher,
	}
}

func (f *fixture) user(t *testing.T, userId string, role model.GlobalRole) *model.Identity {
	t.Helper()
	email := userId + "@askflow.test"
	require.NoError(t, f.repos.User.Create(context.Background(), &model.User{
		UserId: userId, Email: email, Name: userId, GlobalRole: role,
	}))
	return &model.Identity{Id: userId, Email: email, Role: role}
}

// project creates a project owned by creator with the given extra members.
func (f *fixture) project(t *testing.T, creator *model.Identity, members map[*model.Identity]model.ProjectRole) *model.Project {
	t.Helper()
	ctx := context.Background()
	p, err := f.svc.Project.CreateProject(ctx, creator, &CreateProjectReq{Name: "p-" + creator.Id})
	require.NoError(t, err)
	for identity, role := range members {
		_, err := f.svc.Member.AddMember(ctx, creator, p.ProjectId, &AddMemberReq{UserId: identity.Id, Role: string(role)})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) question(t *testing.T, creator *model.Identity, projectId string, assignee *model.Identity) *model.Question {
	t.Helper()
	q, err := f.svc.Question.CreateQuestion(context.Background(), creator, projectId, &CreateQuestionReq{
		Title:      "How do I deploy?",
		AssigneeId: assignee.Id,
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) notifications(t *testing.T, userId string) []model.Notification {
	t.Helper()
	list, err := f.repos.Notification.List(context.Background(), userId, false)
	require.NoError(t, err)
	return list
}

func (f *fixture) media(t *testing.T, uploader *model.Identity, name string) *model.MediaFile {
	t.Helper()
	m, err := f.svc.Media.RegisterMediaFile(context.Background(), uploader, &RegisterMediaReq{
		ObjectKey: "media/2026/03/01/" + uploader.Id + "-" + name,
		FileName:  name,
		FileType:  "image/png",
		FileSize:  2048,
	})
	require.NoError(t, err)
	return m
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

func fixedClock(at time.Time) clock {
	return func() time.Time { return at }
}
