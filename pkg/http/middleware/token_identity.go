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
	"strings"

	"github.com/go-arcade/askflow/internal/engine/consts"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/http/jwt"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// TokenIdentityMiddleware verifies the bearer token and rewrites the trusted
// identity headers from its claims, so client supplied headers never reach
// IdentityMiddleware. It is a no-op unless auth is enabled.
func TokenIdentityMiddleware(auth httpx.Auth) fiber.Handler {
	if !auth.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		header := c.Request().Header
		header.Del(consts.HeaderUserId)
		header.Del(consts.HeaderUserEmail)
		header.Del(consts.HeaderUserRole)

		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return apperr.Unauthenticated(httpx.AuthorizationEmpty.Msg)
		}
		scheme, token, ok := strings.Cut(aToken, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return apperr.Unauthenticated(httpx.TokenFormatIncorrect.Msg)
		}

		claims, err := jwt.ParseToken(strings.TrimSpace(token), auth.Secret, auth.Issuer)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperr.Unauthenticated(httpx.TokenExpired.Msg)
			}
			log.Debugw("parse token failed", "error", err)
			return apperr.Unauthenticated(httpx.InvalidToken.Msg)
		}

		header.Set(consts.HeaderUserId, claims.UserId)
		header.Set(consts.HeaderUserEmail, claims.Email)
		header.Set(consts.HeaderUserRole, claims.Role)
		return c.Next()
	}
}
