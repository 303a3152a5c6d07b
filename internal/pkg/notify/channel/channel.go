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
	"time"

	"github.com/go-arcade/askflow/internal/pkg/notify/auth"
)

// Payload is what a channel delivers for one persisted notification
type Payload struct {
	NotificationId string    `json:"notificationId"`
	UserId         string    `json:"userId"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	RelatedId      string    `json:"relatedId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type INotifyChannel interface {
	// Name identifies the channel in logs and metrics
	Name() string
	// SetAuth sets the authentication provider
	SetAuth(provider auth.IAuthProvider) error
	// Send delivers a single notification
	Send(ctx context.Context, payload Payload) error
	// Validate validates the channel configuration
	Validate() error
	// Close releases the channel's resources
	Close() error
}
