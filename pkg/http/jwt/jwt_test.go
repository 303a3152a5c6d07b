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

package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims *AuthClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(expiresIn time.Duration, issuer string) *AuthClaims {
	return &AuthClaims{
		UserId: "u-1",
		Email:  "alice@example.com",
		Role:   "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestParseToken(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(time.Hour, "sso"))

	claims, err := ParseToken(valid, secret, "sso")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserId)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)

	_, err = ParseToken(valid, secret, "")
	assert.NoError(t, err)
}

func TestParseToken_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty",
			token: "",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenInvalid) },
		},
		{
			name:  "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(-time.Minute, "")),
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenExpired) },
		},
		{
			name:  "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(time.Hour, "")),
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenInvalid) },
		},
		{
			name:  "wrong algorithm",
			token: sign(t, jwt.SigningMethodHS512, []byte(secret), claimsFor(time.Hour, "")),
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenInvalid) },
		},
		{
			name:  "wrong issuer",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(time.Hour, "evil")),
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenInvalid) },
		},
		{
			name:  "garbage",
			token: "not.a.token",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrTokenInvalid) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, secret, "sso")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
