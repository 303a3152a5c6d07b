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
	"strings"
	"time"

	"github.com/go-arcade/askflow/internal/engine/consts"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// paths excluded from the access log; a trailing /* matches a prefix
var excludedPaths = []string{
	"/health",
	"/metrics",
}

func skipAccessLog(path string) bool {
	for _, rule := range excludedPaths {
		if prefix, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		} else if strings.HasSuffix(path, rule) {
			return true
		}
	}
	return false
}

func AccessLogMiddleware(enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		if skipAccessLog(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		// the ErrorHandler has not written yet, so derive the status from err
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusForError(err)
		}

		ip, _ := c.Locals(consts.CLIENT_IP).(string)
		if ip == "" {
			ip = c.IP()
		}
		requestId, _ := c.Locals(consts.REQUEST_ID).(string)

		log.WithContext(c.UserContext()).Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency.String(),
			"ip", ip,
			"request_id", requestId,
			"user_agent", c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}
