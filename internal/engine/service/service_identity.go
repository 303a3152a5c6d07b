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

package service

import (
	"strings"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
)

// ResolveIdentity builds the caller identity from the trusted header
// values. It returns nil when any value is missing or malformed.
func ResolveIdentity(userId, email, role string) *model.Identity {
	userId = strings.TrimSpace(userId)
	email = strings.TrimSpace(email)
	if userId == "" || !model.ValidEmail(email) {
		return nil
	}
	globalRole, err := model.ParseGlobalRole(strings.TrimSpace(role))
	if err != nil {
		return nil
	}
	return &model.Identity{
		Id:    userId,
		Email: model.NormalizeEmail(email),
		Role:  globalRole,
	}
}

var errUnauthenticated = apperr.Unauthenticated("missing or invalid identity")

func requireIdentity(identity *model.Identity) error {
	if identity == nil || identity.Id == "" {
		return errUnauthenticated
	}
	return nil
}
