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

import "github.com/gofiber/fiber/v2"

var (
	Success = success(200, "Request Success")
	Created = success(201, "Created")
)

var (
	// 400
	BadRequest                    = failed(4000, "Bad request")
	RequestParameterParsingFailed = failed(4001, "Request parameter parsing failed")
	ValidationFailed              = failed(4002, "Validation failed")

	// 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	AuthorizationEmpty   = failed(4404, "Authorization is empty")
	InvalidToken         = failed(4405, "Invalid token")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	// 404
	NotFound = failed(4004, "Not found")

	// 409
	Conflict = failed(4090, "Conflict")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

// CodeForStatus maps an HTTP status onto the business code table
func CodeForStatus(status int) *Response {
	switch status {
	case fiber.StatusBadRequest:
		return ValidationFailed
	case fiber.StatusUnauthorized:
		return Unauthorized
	case fiber.StatusForbidden:
		return Forbidden
	case fiber.StatusNotFound:
		return NotFound
	case fiber.StatusConflict:
		return Conflict
	case fiber.StatusOK:
		return Success
	case fiber.StatusCreated:
		return Created
	default:
		if status >= 400 && status < 500 {
			return BadRequest
		}
		return InternalError
	}
}

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
