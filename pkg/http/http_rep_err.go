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

package http

import (
	"github.com/gofiber/fiber/v2"
)

// ResponseErr is the only error body the API emits. Error is always set.
type ResponseErr struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Path  string `json:"path,omitempty"`
}

// WithRepErr sets status and writes the error envelope
func WithRepErr(c *fiber.Ctx, status, code int, errMsg string, path string) error {
	return c.Status(status).JSON(ResponseErr{
		Error: errMsg,
		Code:  code,
		Path:  path,
	})
}
