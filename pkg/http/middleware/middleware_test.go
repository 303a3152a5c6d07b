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

package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-arcade/askflow/internal/engine/consts"
	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	askjwt "github.com/go-arcade/askflow/pkg/http/jwt"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

func testResolver(userId, email, role string) *model.Identity {
	if userId == "" || !model.ValidEmail(email) {
		return nil
	}
	r, err := model.ParseGlobalRole(role)
	if err != nil {
		return nil
	}
	return &model.Identity{Id: userId, Email: email, Role: r}
}

func decodeErr(t *testing.T, resp *http.Response) httpx.ResponseErr {
	t.Helper()
	var body httpx.ResponseErr
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestRequestMiddleware(t *testing.T) {
	app := newApp()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(consts.REQUEST_ID).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-Id", "existing-request-id-12345")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "existing-request-id-12345", resp.Header.Get("X-Request-Id"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := newApp()
	app.Use(UnifiedResponseMiddleware())
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(consts.DETAIL, fiber.Map{"name": "p1"})
		return nil
	})
	app.Post("/created", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusCreated)
		c.Locals(consts.DETAIL, fiber.Map{"id": "x"})
		return nil
	})
	app.Delete("/op", func(c *fiber.Ctx) error {
		c.Locals(consts.OPERATION, "")
		return nil
	})

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantCode   int
		wantDetail bool
	}{
		{http.MethodGet, "/detail", 200, 200, true},
		{http.MethodPost, "/created", 201, 201, true},
		{http.MethodDelete, "/op", 200, 200, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body httpx.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantDetail, body.Detail != nil)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthenticated", apperr.Unauthenticated("no identity"), 401, "no identity"},
		{"forbidden", apperr.Forbidden("not a member"), 403, "not a member"},
		{"not found", apperr.NotFound("question not found"), 404, "question not found"},
		{"validation", apperr.Validation("question is closed"), 400, "question is closed"},
		{"conflict", apperr.Conflict("file is referenced"), 409, "file is referenced"},
		{"internal", apperr.Internal("db", io.ErrUnexpectedEOF), 500, httpx.InternalError.Msg},
		{"plain error", io.EOF, 500, httpx.InternalError.Msg},
		{"fiber error", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too large"), 413, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/boom", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeErr(t, resp)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.Equal(t, "/boom", body.Path)
			assert.Equal(t, httpx.CodeForStatus(tt.wantStatus).Code, body.Code)
		})
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.NotEmpty(t, decodeErr(t, resp).Error)
}

func TestExceptionMiddleware(t *testing.T) {
	app := newApp()
	app.Use(ExceptionMiddleware)
	app.Get("/panic", func(c *fiber.Ctx) error { panic("secret detail") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body := decodeErr(t, resp)
	assert.Equal(t, httpx.InternalError.Msg, body.Error)
	assert.NotContains(t, body.Error, "secret")
}

func TestIdentityMiddleware(t *testing.T) {
	app := newApp()
	app.Use(IdentityMiddleware(testResolver))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(IdentityFrom(c))
	})

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"valid", map[string]string{"x-user-id": "u1", "x-user-email": "a@b.c", "x-user-role": "USER"}, 200},
		{"missing id", map[string]string{"x-user-email": "a@b.c", "x-user-role": "USER"}, 401},
		{"bad email", map[string]string{"x-user-id": "u1", "x-user-email": "nope", "x-user-role": "USER"}, 401},
		{"bad role", map[string]string{"x-user-id": "u1", "x-user-email": "a@b.c", "x-user-role": "ROOT"}, 401},
		{"nothing", nil, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == 401 {
				assert.NotEmpty(t, decodeErr(t, resp).Error)
			}
		})
	}
}

func TestTokenIdentityMiddleware(t *testing.T) {
	auth := httpx.Auth{Enabled: true, Secret: "s3cret"}
	app := newApp()
	app.Use(TokenIdentityMiddleware(auth), IdentityMiddleware(testResolver))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(IdentityFrom(c).Id)
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &askjwt.AuthClaims{
		UserId: "u-real",
		Email:  "real@example.com",
		Role:   "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(auth.Secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-user-id", "u-spoofed")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "u-real", string(raw))

	// spoofed headers alone are not trusted in token mode
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("x-user-id", "u-spoofed")
	req.Header.Set("x-user-email", "a@b.c")
	req.Header.Set("x-user-role", "ADMIN")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestTokenIdentityMiddleware_Disabled(t *testing.T) {
	app := newApp()
	app.Use(TokenIdentityMiddleware(httpx.Auth{}), IdentityMiddleware(testResolver))
	app.Get("/me", func(c *fiber.Ctx) error { return c.SendString(IdentityFrom(c).Id) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("x-user-id", "u1")
	req.Header.Set("x-user-email", "a@b.c")
	req.Header.Set("x-user-role", "USER")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTraceMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	}()

	app := newApp()
	app.Use(TraceMiddleware())
	app.Get("/projects/:projectId", func(c *fiber.Ctx) error {
		return apperr.NotFound("project not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /projects/:projectId", spans[0].Name())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
}

func TestAccessLogAndRealIP(t *testing.T) {
	app := newApp()
	app.Use(RealIPMiddleware(), AccessLogMiddleware(true))
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(consts.CLIENT_IP).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "10.0.0.1", string(raw))

	assert.True(t, skipAccessLog("/api/v1/health"))
	assert.False(t, skipAccessLog("/api/v1/projects"))
}
