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

package notify

import (
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/pkg/notify/auth"
)

type ChannelType string

const (
	ChannelTypeWebhook ChannelType = "webhook"
	ChannelTypeSlack   ChannelType = "slack"
)

// ChannelConfig describes one outbound delivery channel.
type ChannelConfig struct {
	Name    string      `mapstructure:"name"`
	Type    ChannelType `mapstructure:"type"`
	URL     string      `mapstructure:"url"`
	Method  string      `mapstructure:"method"`
	Timeout int         `mapstructure:"timeout"` // seconds
	Auth    auth.Config `mapstructure:"auth"`
	// Template rewrites the delivered message, see template.ChannelData
	Template string `mapstructure:"template"`
}

type Config struct {
	// DeliveryTimeout bounds one fan-out to all channels, in seconds
	DeliveryTimeout int `mapstructure:"deliveryTimeout"`
	// DeliveryAttempts counts sends per channel, the first one included
	DeliveryAttempts int             `mapstructure:"deliveryAttempts"`
	Channels         []ChannelConfig `mapstructure:"channels"`
}

func (c *Config) SetDefaults() {
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = 10
	}
	if c.DeliveryAttempts <= 0 {
		c.DeliveryAttempts = 3
	}
	for i := range c.Channels {
		if c.Channels[i].Timeout <= 0 {
			c.Channels[i].Timeout = 5
		}
	}
}

func (c *Config) deliveryTimeout() time.Duration {
	if c.DeliveryTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.DeliveryTimeout) * time.Second
}

// Message is one notification to persist for UserId.
type Message struct {
	UserId    string
	Type      model.NotificationType
	RelatedId string
	Title     string
}
