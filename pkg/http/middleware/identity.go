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
	"github.com/go-arcade/askflow/internal/engine/consts"
	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/gofiber/fiber/v2"
)

// IdentityResolver validates the raw identity headers and returns nil when
// any of them is missing or malformed.
type IdentityResolver func(userId, email, role string) *model.Identity

// IdentityMiddleware rejects the request with 401 before any handler runs
// unless the trusted headers resolve to an identity.
func IdentityMiddleware(resolve IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := resolve(
			c.Get(consts.HeaderUserId),
			c.Get(consts.HeaderUserEmail),
			c.Get(consts.HeaderUserRole),
		)
		if identity == nil {
			return apperr.Unauthenticated("missing or invalid identity")
		}
		c.Locals(consts.IDENTITY, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by IdentityMiddleware, or nil
func IdentityFrom(c *fiber.Ctx) *model.Identity {
	identity, _ := c.Locals(consts.IDENTITY).(*model.Identity)
	return identity
}
