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

package model

import (
	"net/mail"
	"strings"

	"github.com/go-arcade/askflow/internal/pkg/apperr"
)

type GlobalRole string

const (
	GlobalRoleAdmin GlobalRole = "ADMIN"
	GlobalRoleUser  GlobalRole = "USER"
)

func ParseGlobalRole(s string) (GlobalRole, error) {
	switch r := GlobalRole(s); r {
	case GlobalRoleAdmin, GlobalRoleUser:
		return r, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown global role %q", s)
}

// Identity is the verified caller. It is resolved once per request and
// passed explicitly to every authorizer and engine method.
type Identity struct {
	Id    string     `json:"id"`
	Email string     `json:"email"`
	Role  GlobalRole `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == GlobalRoleAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail accepts a single bare address such as a@b.c
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == email
}
