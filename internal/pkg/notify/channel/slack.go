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

package channel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-arcade/askflow/internal/pkg/notify/auth"
	"github.com/go-resty/resty/v2"
)

// SlackChannel posts to a Slack incoming webhook
type SlackChannel struct {
	name         string
	webhookURL   string
	authProvider auth.IAuthProvider
	client       *resty.Client
}

func NewSlackChannel(name, webhookURL string, timeout time.Duration) *SlackChannel {
	return &SlackChannel{
		name:       name,
		webhookURL: webhookURL,
		client:     newRestyClient(timeout),
	}
}

func (c *SlackChannel) Name() string { return c.name }

func (c *SlackChannel) SetAuth(provider auth.IAuthProvider) error {
	c.authProvider = provider
	if provider == nil {
		return nil
	}
	return provider.Validate()
}

func (c *SlackChannel) Send(ctx context.Context, payload Payload) error {
	if err := c.Validate(); err != nil {
		return err
	}
	body := map[string]any{
		"text": fmt.Sprintf("[%s] %s", payload.Type, payload.Message),
	}
	return sendJSON(ctx, c.client, c.authProvider, http.MethodPost, c.webhookURL, body)
}

func (c *SlackChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL is required")
	}
	return nil
}

func (c *SlackChannel) Close() error {
	return nil
}
