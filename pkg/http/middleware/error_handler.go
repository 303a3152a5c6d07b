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
	"errors"

	"github.com/go-arcade/askflow/internal/pkg/apperr"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// StatusForError maps an error onto the HTTP status the ErrorHandler will send
func StatusForError(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the single place where errors become responses. Internal
// failures are logged with their cause and reported with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusForError(err)
	code := httpx.CodeForStatus(status)

	var (
		fe  *fiber.Error
		ae  *apperr.Error
		msg string
	)
	switch {
	case status >= fiber.StatusInternalServerError:
		log.WithContext(c.UserContext()).Errorw("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		msg = httpx.InternalError.Msg
	case errors.As(err, &ae):
		msg = ae.Msg
	case errors.As(err, &fe):
		msg = fe.Message
	default:
		msg = code.Msg
	}
	if msg == "" {
		msg = code.Msg
	}

	return httpx.WithRepErr(c, status, code.Code, msg, c.Path())
}
