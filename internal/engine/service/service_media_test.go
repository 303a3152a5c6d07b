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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaService_CreateUploadURL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.GlobalRoleUser)
	f.svc.Media.clock = fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	up, err := f.svc.Media.CreateUploadURL(ctx, alice, &UploadURLReq{FileName: "trace.log", ContentType: "text/plain"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.ObjectKey, "media/2026/03/01/"), up.ObjectKey)
	assert.True(t, strings.HasSuffix(up.ObjectKey, ".log"), up.ObjectKey)
	assert.Contains(t, up.UploadUrl, up.ObjectKey)
	assert.Equal(t, "https://blobs.test/"+up.ObjectKey, up.StorageUrl)
	assert.Equal(t, 60, up.ExpiresIn)

	for _, name := range []string{"", "../etc/passwd", "dir/file.txt"} {
		_, err := f.svc.Media.CreateUploadURL(ctx, alice, &UploadURLReq{FileName: name})
		assertKind(t, err, apperr.KindValidation)
	}

	disabled := NewMediaService(f.repos, nil, 0)
	_, err = disabled.CreateUploadURL(ctx, alice, &UploadURLReq{FileName: "a.png"})
	assertKind(t, err, apperr.KindInternal)
}

func TestMediaService_RegisterAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.GlobalRoleUser)
	bob := f.user(t, "bob", model.GlobalRoleUser)
	admin := f.user(t, "admin", model.GlobalRoleAdmin)

	_, err := f.svc.Media.RegisterMediaFile(ctx, alice, &RegisterMediaReq{ObjectKey: "uploads/a.png"})
	assertKind(t, err, apperr.KindValidation)
	_, err = f.svc.Media.RegisterMediaFile(ctx, alice, &RegisterMediaReq{ObjectKey: "media/../secrets"})
	assertKind(t, err, apperr.KindValidation)

	m := f.media(t, alice, "a.png")
	assert.Equal(t, "https://blobs.test/"+m.ObjectKey, m.StorageUrl)
	f.media(t, bob, "b.png")

	_, err = f.svc.Media.GetMediaFile(ctx, bob, m.FileId)
	assertKind(t, err, apperr.KindForbidden)
	_, err = f.svc.Media.GetMediaFile(ctx, admin, m.FileId)
	assert.NoError(t, err)

	mine, err := f.svc.Media.ListMediaFiles(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	all, err := f.svc.Media.ListMediaFiles(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMediaService_DeleteGuard(t *testing.T) {
	s := newAnswerSetup(t)
	ctx := context.Background()

	attached := s.f.media(t, s.assignee, "attached.png")
	inForm := s.f.media(t, s.assignee, "form.png")
	_, err := s.f.svc.Answer.PostAnswer(ctx, s.assignee, s.question.QuestionId, &PostAnswerReq{
		Content:     "see attachment",
		MediaFileId: &attached.FileId,
	})
	require.NoError(t, err)

	other := s.f.question(t, s.creator, s.project.ProjectId, s.assignee)
	form, err := s.f.svc.Form.PutForm(ctx, s.creator, other.QuestionId, []FieldInput{{Label: "Proof", FieldType: "FILE", IsRequired: true}})
	require.NoError(t, err)
	_, err = s.f.svc.Answer.PostAnswer(ctx, s.assignee, other.QuestionId, &PostAnswerReq{
		FormData: []FormDataInput{{FieldId: form.Fields[0].FieldId, Value: inForm.FileId}},
	})
	require.NoError(t, err)

	for _, m := range []*model.MediaFile{attached, inForm} {
		err := s.f.svc.Media.DeleteMediaFile(ctx, s.assignee, m.FileId)
		assertKind(t, err, apperr.KindConflict)

		still, err := s.f.svc.Media.GetMediaFile(ctx, s.assignee, m.FileId)
		require.NoError(t, err)
		assert.Equal(t, m.ObjectKey, still.ObjectKey)
	}
	assert.Empty(t, s.f.blobs.deleted)
}

func TestMediaService_DeleteUnreferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", model.GlobalRoleUser)
	bob := f.user(t, "bob", model.GlobalRoleUser)
	admin := f.user(t, "admin", model.GlobalRoleAdmin)

	m := f.media(t, alice, "a.png")
	assertKind(t, f.svc.Media.DeleteMediaFile(ctx, bob, m.FileId), apperr.KindForbidden)
	require.NoError(t, f.svc.Media.DeleteMediaFile(ctx, alice, m.FileId))
	assert.Equal(t, []string{m.ObjectKey}, f.blobs.deleted)

	_, err := f.svc.Media.GetMediaFile(ctx, alice, m.FileId)
	assertKind(t, err, apperr.KindNotFound)

	// a failing blob delete does not fail the request
	f.blobs.failDel = errors.New("bucket unavailable")
	other := f.media(t, alice, "b.png")
	assert.NoError(t, f.svc.Media.DeleteMediaFile(ctx, admin, other.FileId))
}
