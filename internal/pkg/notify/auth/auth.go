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

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
)

type AuthType string

const (
	AuthTypeNone   AuthType = ""
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "apikey"
	AuthTypeBasic  AuthType = "basic"
)

// IAuthProvider supplies the header an outbound channel attaches to each call
type IAuthProvider interface {
	GetAuthType() AuthType
	GetAuthHeader() (key, value string)
	Validate() error
}

type Config struct {
	Type       AuthType `mapstructure:"type"`
	Token      string   `mapstructure:"token"`
	APIKey     string   `mapstructure:"apiKey"`
	HeaderName string   `mapstructure:"headerName"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
}

// NewAuthProvider returns nil, nil when no auth is configured
func NewAuthProvider(cfg Config) (IAuthProvider, error) {
	var p IAuthProvider
	switch cfg.Type {
	case AuthTypeNone:
		return nil, nil
	case AuthTypeBearer:
		p = NewBearerAuth(cfg.Token)
	case AuthTypeAPIKey:
		p = NewAPIKeyAuth(cfg.APIKey, cfg.HeaderName)
	case AuthTypeBasic:
		p = NewBasicAuth(cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type BearerAuth struct {
	Token string
}

func NewBearerAuth(token string) *BearerAuth {
	return &BearerAuth{Token: token}
}

func (a *BearerAuth) GetAuthType() AuthType { return AuthTypeBearer }

func (a *BearerAuth) GetAuthHeader() (string, string) {
	return "Authorization", "Bearer " + a.Token
}

func (a *BearerAuth) Validate() error {
	if a.Token == "" {
		return errors.New("bearer token is required")
	}
	return nil
}

type APIKeyAuth struct {
	APIKey     string
	HeaderName string
}

// NewAPIKeyAuth sends the key in headerName, X-API-Key by default
func NewAPIKeyAuth(apiKey, headerName string) *APIKeyAuth {
	if headerName == "" {
		headerName = "X-API-Key"
	}
	return &APIKeyAuth{APIKey: apiKey, HeaderName: headerName}
}

func (a *APIKeyAuth) GetAuthType() AuthType { return AuthTypeAPIKey }

func (a *APIKeyAuth) GetAuthHeader() (string, string) {
	return a.HeaderName, a.APIKey
}

func (a *APIKeyAuth) Validate() error {
	if a.APIKey == "" {
		return errors.New("api key is required")
	}
	return nil
}

type BasicAuth struct {
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{Username: username, Password: password}
}

func (a *BasicAuth) GetAuthType() AuthType { return AuthTypeBasic }

func (a *BasicAuth) GetAuthHeader() (string, string) {
	cred := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	return "Authorization", "Basic " + cred
}

func (a *BasicAuth) Validate() error {
	if a.Username == "" {
		return errors.New("username is required")
	}
	if a.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
