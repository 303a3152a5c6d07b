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
	"github.com/go-arcade/askflow/internal/engine/consts"
	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/http/middleware"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/gofiber/fiber/v2"
)

var errBadBody = apperr.Validation(httpx.RequestParameterParsingFailed.Msg)

// bind decodes the JSON body into v. An empty body leaves v untouched.
func bind(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		log.WithContext(c.UserContext()).Debugw("parse request body failed", "path", c.Path(), "error", err)
		return errBadBody
	}
	return nil
}

func identity(c *fiber.Ctx) *model.Identity {
	return middleware.IdentityFrom(c)
}

func detail(c *fiber.Ctx, v any) error {
	c.Locals(consts.DETAIL, v)
	return nil
}

func created(c *fiber.Ctx, v any) error {
	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, v)
	return nil
}

func operation(c *fiber.Ctx, id string) error {
	c.Locals(consts.OPERATION, id)
	return nil
}

// list keeps empty results as [] rather than null in the envelope
func list[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	return detail(c, items)
}
