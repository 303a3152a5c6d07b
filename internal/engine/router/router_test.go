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

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/internal/pkg/notify/template"
	"github.com/go-arcade/askflow/pkg/database"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code   int             `json:"code"`
	Detail json.RawMessage `json:"detail"`
	Msg    string          `json:"msg"`
	Error  string          `json:"error"`
	Path   string          `json:"path"`
}

type testServer struct {
	app   *fiber.App
	repos *repo.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	m, err := database.NewManager(database.Database{
		Driver:      database.DriverSQLite,
		SQLite:      database.SQLiteConfig{DSN: ":memory:"},
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	repos := repo.NewRepositories(database.NewDatabaseAdapter(m), nil)
	templates, err := template.NewTemplateEngine()
	require.NoError(t, err)
	dispatcher := notify.NewDispatcher(repos.Notification, templates, nil, notify.Config{})

	services := service.NewServices(repos, dispatcher, nil, storage.Storage{})
	rt := NewRouter(httpx.Http{}, services, metrics.NewServer(metrics.MetricsConfig{}))
	return &testServer{app: rt.Router(), repos: repos}
}

func (s *testServer) user(t *testing.T, userId string, role model.GlobalRole) *model.Identity {
	t.Helper()
	email := userId + "@askflow.test"
	require.NoError(t, s.repos.User.Create(context.Background(), &model.User{
		UserId: userId, Email: email, Name: userId, GlobalRole: role,
	}))
	return &model.Identity{Id: userId, Email: email, Role: role}
}

func (s *testServer) do(t *testing.T, method, path string, who *model.Identity, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if who != nil {
		req.Header.Set("x-user-id", who.Id)
		req.Header.Set("x-user-email", who.Email)
		req.Header.Set("x-user-role", string(who.Role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeDetail[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Detail, &v), string(env.Detail))
	return v
}

func TestRouter_HealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(raw))

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Contains(t, info, "version")
}

func TestRouter_IdentityRequired(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/v1/projects", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, env.Error)
	assert.Equal(t, httpx.Unauthorized.Code, env.Code)
	assert.Equal(t, "/api/v1/projects", env.Path)

	bad := &model.Identity{Id: "u1", Email: "not-an-email", Role: model.GlobalRoleUser}
	status, _ = s.do(t, http.MethodGet, "/api/v1/projects", bad, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", model.GlobalRoleUser)
	bob := s.user(t, "bob", model.GlobalRoleUser)

	status, env := s.do(t, http.MethodGet, "/api/v1/projects", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(env.Detail))

	status, env = s.do(t, http.MethodPost, "/api/v1/projects", alice, map[string]string{"name": "Platform"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, httpx.Created.Code, env.Code)
	project := decodeDetail[model.Project](t, env)
	assert.Equal(t, "Platform", project.Name)
	require.NotEmpty(t, project.ProjectId)

	base := "/api/v1/projects/" + project.ProjectId

	status, env = s.do(t, http.MethodGet, base, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.NotEmpty(t, env.Error)

	status, _ = s.do(t, http.MethodPost, base+"/members", alice, map[string]string{"userId": bob.Id})
	require.Equal(t, http.StatusCreated, status)

	status, env = s.do(t, http.MethodGet, base+"/members", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeDetail[[]model.ProjectMember](t, env), 2)

	status, _ = s.do(t, http.MethodPatch, base, bob, map[string]string{"name": "Mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodPatch, base, alice, map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Renamed", decodeDetail[model.Project](t, env).Name)

	status, env = s.do(t, http.MethodDelete, base, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, httpx.Success.Code, env.Code)

	status, _ = s.do(t, http.MethodGet, base, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", model.GlobalRoleUser)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"malformed body", http.MethodPost, "/api/v1/projects", `{"name":`, http.StatusBadRequest},
		{"validation", http.MethodPost, "/api/v1/projects", map[string]string{"name": " "}, http.StatusBadRequest},
		{"missing project", http.MethodGet, "/api/v1/projects/nope", nil, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", nil, http.StatusNotFound},
		{"storage disabled", http.MethodPost, "/api/v1/media/upload-url", map[string]string{"fileName": "a.png"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := s.do(t, tt.method, tt.path, alice, tt.body)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, env.Error)
			assert.Equal(t, httpx.CodeForStatus(tt.status).Code, env.Code)
			assert.Equal(t, tt.path, env.Path)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, httpx.InternalError.Msg, env.Error)
			}
		})
	}
}

func TestRouter_QuestionFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", model.GlobalRoleUser)
	bob := s.user(t, "bob", model.GlobalRoleUser)

	_, env := s.do(t, http.MethodPost, "/api/v1/projects", alice, map[string]string{"name": "p1"})
	p1 := decodeDetail[model.Project](t, env)
	_, env = s.do(t, http.MethodPost, "/api/v1/projects", alice, map[string]string{"name": "p2"})
	p2 := decodeDetail[model.Project](t, env)
	s.do(t, http.MethodPost, "/api/v1/projects/"+p1.ProjectId+"/members", alice, map[string]string{"userId": bob.Id})

	questions := "/api/v1/projects/" + p1.ProjectId + "/questions"
	status, env := s.do(t, http.MethodPost, questions, alice, map[string]string{"title": "How?", "assigneeId": bob.Id})
	require.Equal(t, http.StatusCreated, status)
	q := decodeDetail[model.Question](t, env)
	qPath := questions + "/" + q.QuestionId

	// the question is looked up under the wrong project
	wrong := "/api/v1/projects/" + p2.ProjectId + "/questions/" + q.QuestionId
	for _, path := range []string{wrong, wrong + "/answers", wrong + "/form"} {
		status, _ = s.do(t, http.MethodGet, path, alice, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
	}

	status, env = s.do(t, http.MethodPut, qPath+"/form", alice, map[string]any{
		"fields": []map[string]any{{"label": "Name", "fieldType": "TEXT", "isRequired": true}},
	})
	require.Equal(t, http.StatusOK, status)
	form := decodeDetail[model.AnswerForm](t, env)
	require.Len(t, form.Fields, 1)

	status, _ = s.do(t, http.MethodPost, qPath+"/answers", bob, map[string]any{
		"formData": []map[string]string{{"fieldId": form.Fields[0].FieldId, "value": "bob"}},
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = s.do(t, http.MethodGet, qPath, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.QuestionPendingApproval, decodeDetail[model.Question](t, env).Status)

	status, _ = s.do(t, http.MethodDelete, qPath+"/form", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(t, http.MethodPost, qPath+"/status", alice, map[string]string{"status": "CLOSED"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.QuestionClosed, decodeDetail[model.Question](t, env).Status)

	status, _ = s.do(t, http.MethodPost, qPath+"/answers", bob, map[string]string{"content": "late"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(t, http.MethodGet, "/api/v1/notifications?unread=true", alice, nil)
	require.Equal(t, http.StatusOK, status)
	notes := decodeDetail[[]model.Notification](t, env)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyNewAnswerPosted, notes[0].Type)

	status, _ = s.do(t, http.MethodPost, "/api/v1/notifications/"+notes[0].NotificationId+"/read", bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(t, http.MethodPost, "/api/v1/notifications/"+notes[0].NotificationId+"/read", alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodPost, "/api/v1/notifications/read-all", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated":2}`, string(env.Detail))
}

func TestRouter_MediaConflict(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", model.GlobalRoleUser)

	_, env := s.do(t, http.MethodPost, "/api/v1/projects", alice, map[string]string{"name": "p"})
	p := decodeDetail[model.Project](t, env)
	questions := "/api/v1/projects/" + p.ProjectId + "/questions"
	_, env = s.do(t, http.MethodPost, questions, alice, map[string]string{"title": "logs?", "assigneeId": alice.Id})
	q := decodeDetail[model.Question](t, env)

	status, env := s.do(t, http.MethodPost, "/api/v1/media", alice, map[string]any{
		"objectKey": "media/2026/03/01/trace.log", "fileName": "trace.log", "fileSize": 10,
	})
	require.Equal(t, http.StatusCreated, status)
	file := decodeDetail[model.MediaFile](t, env)

	status, _ = s.do(t, http.MethodPost, questions+"/"+q.QuestionId+"/answers", alice, map[string]any{
		"content": "attached", "mediaFileId": file.FileId,
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = s.do(t, http.MethodDelete, "/api/v1/media/"+file.FileId, alice, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, httpx.Conflict.Code, env.Code)

	status, _ = s.do(t, http.MethodGet, "/api/v1/media/"+file.FileId, alice, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_Invitations(t *testing.T) {
	s := newTestServer(t)
	alice := s.user(t, "alice", model.GlobalRoleUser)
	carol := s.user(t, "carol", model.GlobalRoleUser)

	_, env := s.do(t, http.MethodPost, "/api/v1/projects", alice, map[string]string{"name": "p"})
	p := decodeDetail[model.Project](t, env)

	status, env := s.do(t, http.MethodPost, "/api/v1/projects/"+p.ProjectId+"/invitations", alice, map[string]string{"email": carol.Email})
	require.Equal(t, http.StatusCreated, status)
	inv := decodeDetail[model.Invitation](t, env)

	status, _ = s.do(t, http.MethodPost, "/api/v1/projects/"+p.ProjectId+"/invitations", alice, map[string]string{"email": carol.Email})
	assert.Equal(t, http.StatusConflict, status)

	status, env = s.do(t, http.MethodGet, "/api/v1/invitations", carol, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeDetail[[]model.Invitation](t, env), 1)

	status, _ = s.do(t, http.MethodPost, "/api/v1/invitations/"+inv.Token+"/accept", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = s.do(t, http.MethodPost, "/api/v1/invitations/"+inv.Token+"/accept", carol, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, carol.Id, decodeDetail[model.ProjectMember](t, env).UserId)

	status, _ = s.do(t, http.MethodGet, "/api/v1/projects/"+p.ProjectId, carol, nil)
	assert.Equal(t, http.StatusOK, status)
}
