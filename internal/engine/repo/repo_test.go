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
	"testing"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	m, err := database.NewManager(database.Database{
		Driver:      database.DriverSQLite,
		SQLite:      database.SQLiteConfig{DSN: ":memory:"},
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return NewRepositories(database.NewDatabaseAdapter(m), cache.NewFastCache(1<<20))
}

func strPtr(s string) *string { return &s }

func TestUserRepo_CacheAndInvalidate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	u := &model.User{UserId: "u1", Email: " Alice@Example.com ", Name: "alice", GlobalRole: model.GlobalRoleUser}
	require.NoError(t, r.User.Create(ctx, u))

	got, err := r.User.GetByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserId)

	got, err = r.User.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	require.NoError(t, r.User.UpdateName(ctx, "u1", "alice b"))
	got, err = r.User.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice b", got.Name)

	_, err = r.User.Get(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.User.Create(ctx, &model.User{UserId: "u2", Email: "alice@example.com", GlobalRole: model.GlobalRoleUser})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProjectRepo_RelationsAndListForUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, r.User.Create(ctx, &model.User{UserId: "u1", Email: "a@x.io", GlobalRole: model.GlobalRoleUser}))
	require.NoError(t, r.User.Create(ctx, &model.User{UserId: "u2", Email: "b@x.io", GlobalRole: model.GlobalRoleUser}))

	for _, pid := range []string{"p1", "p2"} {
		require.NoError(t, r.Project.Create(ctx, &model.Project{ProjectId: pid, CreatorId: "u1", Name: pid}))
		require.NoError(t, r.ProjectMember.Create(ctx, &model.ProjectMember{
			MemberId: id.GetUUID(), ProjectId: pid, UserId: "u1", Role: model.ProjectRoleManager,
		}))
	}
	require.NoError(t, r.ProjectMember.Create(ctx, &model.ProjectMember{
		MemberId: "m2", ProjectId: "p2", UserId: "u2", Role: model.ProjectRoleMember,
	}))

	p, err := r.Project.GetWithRelations(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, p.Creator)
	assert.Equal(t, "a@x.io", p.Creator.Email)
	require.Len(t, p.Members, 2)
	require.NotNil(t, p.Members[1].User)
	assert.Equal(t, "u2", p.Members[1].User.UserId)

	list, err := r.Project.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ProjectId)

	all, err := r.Project.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = r.ProjectMember.Create(ctx, &model.ProjectMember{
		MemberId: "dup", ProjectId: "p2", UserId: "u2", Role: model.ProjectRoleManager,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestInvitationRepo_StatusAndExpiry(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	now := time.Now()

	live := &model.Invitation{
		InvitationId: "i1", ProjectId: "p1", Email: "B@x.io", InviterId: "u1",
		Role: model.ProjectRoleMember, Status: model.InvitationPending, Token: "t1", ExpiresAt: now.Add(time.Hour),
	}
	lapsed := &model.Invitation{
		InvitationId: "i2", ProjectId: "p1", Email: "c@x.io", InviterId: "u1",
		Role: model.ProjectRoleMember, Status: model.InvitationPending, Token: "t2", ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, r.Invitation.Create(ctx, live))
	require.NoError(t, r.Invitation.Create(ctx, lapsed))

	ok, err := r.Invitation.ExistsLive(ctx, "p1", "b@x.io", now)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Invitation.ExistsLive(ctx, "p1", "c@x.io", now)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := r.Invitation.ExpireLapsed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.Invitation.GetByToken(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, model.InvitationExpired, got.Status)

	moved, err := r.Invitation.UpdateStatus(ctx, "i1", model.InvitationPending, model.InvitationAccepted, strPtr("u2"))
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = r.Invitation.UpdateStatus(ctx, "i1", model.InvitationPending, model.InvitationDeclined, nil)
	require.NoError(t, err)
	assert.False(t, moved)

	pending, err := r.Invitation.ListPendingByEmail(ctx, "b@x.io")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestQuestionRepo_FilterAndOverdue(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	questions := []*model.Question{
		{QuestionId: "q1", ProjectId: "p1", CreatorId: "u1", AssigneeId: "u2", Title: "a", Priority: model.PriorityLow, Status: model.QuestionNew, Deadline: &past},
		{QuestionId: "q2", ProjectId: "p1", CreatorId: "u1", AssigneeId: "u3", Title: "b", Priority: model.PriorityLow, Status: model.QuestionClosed, Deadline: &past},
		{QuestionId: "q3", ProjectId: "p1", CreatorId: "u1", AssigneeId: "u2", Title: "c", Priority: model.PriorityLow, Status: model.QuestionInProgress, Deadline: &future},
	}
	for _, q := range questions {
		require.NoError(t, r.Question.Create(ctx, q))
	}

	list, err := r.Question.List(ctx, "p1", QuestionFilter{AssigneeId: "u2"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	list, err = r.Question.List(ctx, "p1", QuestionFilter{Status: model.QuestionClosed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "q2", list[0].QuestionId)

	overdue, err := r.Question.ListOverdue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "q1", overdue[0].QuestionId)

	stamped, err := r.Question.MarkDeadlineNotified(ctx, "q1", now)
	require.NoError(t, err)
	assert.True(t, stamped)
	stamped, err = r.Question.MarkDeadlineNotified(ctx, "q1", now)
	require.NoError(t, err)
	assert.False(t, stamped)

	overdue, err = r.Question.ListOverdue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestAnswerFormRepo_FieldOrder(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, r.AnswerForm.Create(ctx, &model.AnswerForm{FormId: "f1", QuestionId: "q1"}))
	require.NoError(t, r.AnswerForm.CreateFields(ctx, []model.AnswerFormField{
		{FieldId: "b", FormId: "f1", Label: "Second", FieldType: model.FieldText, Order: 1},
		{FieldId: "a", FormId: "f1", Label: "First", FieldType: model.FieldRadio, Options: []string{"x", "y"}, Order: 0},
	}))

	form, err := r.AnswerForm.GetByQuestion(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "First", form.Fields[0].Label)
	assert.Equal(t, []string{"x", "y"}, []string(form.Fields[0].Options))

	err = r.AnswerForm.Create(ctx, &model.AnswerForm{FormId: "f2", QuestionId: "q1"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, r.AnswerForm.DeleteByQuestions(ctx, "q1"))
	_, err = r.AnswerForm.GetByQuestion(ctx, "q1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMediaFileRepo_DeleteUnreferenced(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	for _, fid := range []string{"m1", "m2", "m3"} {
		require.NoError(t, r.MediaFile.Create(ctx, &model.MediaFile{
			FileId: fid, UploaderId: "u1", ObjectKey: "media/" + fid, FileName: fid,
		}))
	}
	require.NoError(t, r.Answer.Create(ctx, &model.Answer{
		AnswerId: "a1", QuestionId: "q1", AuthorId: "u2", MediaFileId: strPtr("m1"),
		FormData: []model.AnswerFormData{{FieldId: "f", Label: "File", Value: "m2", MediaFileId: strPtr("m2")}},
	}))

	refs, err := r.MediaFile.CountReferences(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, MediaReferences{Answers: 1}, refs)
	refs, err = r.MediaFile.CountReferences(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, MediaReferences{FormData: 1}, refs)

	for _, fid := range []string{"m1", "m2"} {
		n, err := r.MediaFile.DeleteUnreferenced(ctx, fid)
		require.NoError(t, err)
		assert.Zero(t, n, fid)
	}
	n, err := r.MediaFile.DeleteUnreferenced(ctx, "m3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := r.MediaFile.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, r.Answer.DeleteByQuestions(ctx, "q1"))
	refs, err = r.MediaFile.CountReferences(ctx, "m2")
	require.NoError(t, err)
	assert.False(t, refs.Any())
}

func TestNotificationRepo_ReadFlags(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	for _, nid := range []string{"n1", "n2"} {
		require.NoError(t, r.Notification.Create(ctx, &model.Notification{
			NotificationId: nid, UserId: "u1", Type: model.NotifyNewAnswerPosted, Message: "m",
		}))
	}

	_, err := r.Notification.MarkRead(ctx, "u2", "n1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := r.Notification.MarkRead(ctx, "u1", "n1")
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := r.Notification.List(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].NotificationId)

	n, err := r.Notification.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepositories_InTxRollback(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	err := r.InTx(ctx, func(ctx context.Context) error {
		require.NoError(t, r.Project.Create(ctx, &model.Project{ProjectId: "p1", CreatorId: "u1", Name: "p"}))
		return r.ProjectMember.Create(ctx, &model.ProjectMember{MemberId: "m1", ProjectId: "p1", UserId: "u1", Role: model.ProjectRoleManager})
	})
	require.NoError(t, err)

	err = r.InTx(ctx, func(ctx context.Context) error {
		require.NoError(t, r.Project.Create(ctx, &model.Project{ProjectId: "p2", CreatorId: "u1", Name: "p"}))
		return r.ProjectMember.Create(ctx, &model.ProjectMember{MemberId: "m2", ProjectId: "p1", UserId: "u1", Role: model.ProjectRoleManager})
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = r.Project.Get(ctx, "p2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
