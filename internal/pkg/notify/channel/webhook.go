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

	"github.com/bytedance/sonic"
	"github.com/go-arcade/askflow/internal/pkg/notify/auth"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-resty/resty/v2"
)

// WebhookChannel posts the notification payload as JSON to a URL
type WebhookChannel struct {
	name         string
	webhookURL   string
	method       string
	authProvider auth.IAuthProvider
	client       *resty.Client
}

func newRestyClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return resty.New().
		SetTimeout(timeout).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
}

func NewWebhookChannel(name, webhookURL, method string, timeout time.Duration) *WebhookChannel {
	if method == "" {
		method = http.MethodPost
	}
	return &WebhookChannel{
		name:       name,
		webhookURL: webhookURL,
		method:     method,
		client:     newRestyClient(timeout),
	}
}

func (c *WebhookChannel) Name() string { return c.name }

// SetAuth sets authentication provider; nil clears it
func (c *WebhookChannel) SetAuth(provider auth.IAuthProvider) error {
	c.authProvider = provider
	if provider == nil {
		return nil
	}
	return provider.Validate()
}

func (c *WebhookChannel) Send(ctx context.Context, payload Payload) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return sendJSON(ctx, c.client, c.authProvider, c.method, c.webhookURL, payload)
}

func (c *WebhookChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	switch c.method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return fmt.Errorf("unsupported webhook method: %s", c.method)
	}
	if c.authProvider != nil {
		return c.authProvider.Validate()
	}
	return nil
}

func (c *WebhookChannel) Close() error {
	return nil
}

func sendJSON(ctx context.Context, client *resty.Client, provider auth.IAuthProvider, method, url string, body any) error {
	req := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	if provider != nil {
		if key, value := provider.GetAuthHeader(); key != "" && value != "" {
			req.SetHeader(key, value)
		}
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		log.Errorw("notify channel request failed", "url", url, "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	if !resp.IsSuccess() {
		log.Errorw("notify channel rejected request", "url", url, "statusCode", resp.StatusCode(), "response", resp.String())
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}
	return nil
}
