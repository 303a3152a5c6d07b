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
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-arcade/askflow/internal/pkg/notify/auth"
	"github.com/go-arcade/askflow/internal/pkg/notify/channel"
	"github.com/go-arcade/askflow/internal/pkg/notify/template"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/retry"
	"github.com/go-arcade/askflow/pkg/safe"
)

const defaultDeliveryAttempts = 3

type NotifyManager struct {
	channels map[string]channel.INotifyChannel
	mu       sync.RWMutex
	attempts int
	backoff  retry.Backoff

	templates *template.TemplateEngine
	messages  map[string]string // channel name to message template
}

func NewNotifyManager() *NotifyManager {
	return &NotifyManager{
		channels: make(map[string]channel.INotifyChannel),
		messages: make(map[string]string),
		attempts: defaultDeliveryAttempts,
		backoff:  retry.Exponential(200*time.Millisecond, 2*time.Second),
	}
}

// SetDeliveryAttempts bounds the sends per channel for one payload.
func (nm *NotifyManager) SetDeliveryAttempts(n int) {
	if n > 0 {
		nm.attempts = n
	}
}

// SetMessageTemplate makes every payload sent to the named channel carry
// content rendered with template.ChannelData instead of the plain message.
func (nm *NotifyManager) SetMessageTemplate(engine *template.TemplateEngine, name, content string) error {
	if engine == nil {
		return fmt.Errorf("template engine cannot be nil")
	}
	if err := engine.ValidateTemplate(content); err != nil {
		return fmt.Errorf("channel %s: %w", name, err)
	}
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.templates = engine
	nm.messages[name] = content
	return nil
}

func (nm *NotifyManager) RegisterChannel(ch channel.INotifyChannel) error {
	if ch == nil {
		return fmt.Errorf("channel cannot be nil")
	}
	name := ch.Name()
	if name == "" {
		return fmt.Errorf("channel name cannot be empty")
	}
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("channel validation failed: %w", err)
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.channels[name]; exists {
		return fmt.Errorf("channel %s already registered", name)
	}
	nm.channels[name] = ch
	return nil
}

func (nm *NotifyManager) GetChannel(name string) (channel.INotifyChannel, error) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	ch, exists := nm.channels[name]
	if !exists {
		return nil, fmt.Errorf("channel %s not found", name)
	}
	return ch, nil
}

func (nm *NotifyManager) UnregisterChannel(name string) error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	ch, exists := nm.channels[name]
	if !exists {
		return fmt.Errorf("channel %s not found", name)
	}
	if err := ch.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	delete(nm.channels, name)
	delete(nm.messages, name)
	return nil
}

func (nm *NotifyManager) ListChannels() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	names := make([]string, 0, len(nm.channels))
	for name := range nm.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Broadcast sends payload to every registered channel concurrently, retrying
// each channel on its own, and joins the per-channel failures.
func (nm *NotifyManager) Broadcast(ctx context.Context, payload channel.Payload) error {
	type target struct {
		ch      channel.INotifyChannel
		payload channel.Payload
	}
	nm.mu.RLock()
	targets := make([]target, 0, len(nm.channels))
	for name, ch := range nm.channels {
		targets = append(targets, target{ch: ch, payload: nm.render(name, payload)})
	}
	nm.mu.RUnlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, t := range targets {
		ch := t.ch
		wg.Add(1)
		safe.Go(func() {
			defer wg.Done()
			err := retry.Do(ctx, func(ctx context.Context) error {
				return ch.Send(ctx, t.payload)
			}, retry.WithMaxAttempts(nm.attempts), retry.WithBackoff(nm.backoff), retry.WithJitter(retry.FullJitter))
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("channel %s: %w", ch.Name(), err))
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

// render applies the channel's message template. A render failure keeps the
// plain message. Callers hold nm.mu.
func (nm *NotifyManager) render(name string, payload channel.Payload) channel.Payload {
	content, ok := nm.messages[name]
	if !ok || nm.templates == nil {
		return payload
	}
	msg, err := nm.templates.RenderString(content, template.ChannelData{
		Type:      payload.Type,
		UserId:    payload.UserId,
		RelatedId: payload.RelatedId,
		Message:   payload.Message,
	})
	if err != nil {
		log.Warnw("failed to render channel message, sending it unchanged",
			"channel", name,
			"notificationId", payload.NotificationId,
			"error", err,
		)
		return payload
	}
	payload.Message = msg
	return payload
}

func (nm *NotifyManager) Close() error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	var errs []error
	for name, ch := range nm.channels {
		if err := ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("channel %s: %w", name, err))
		}
		delete(nm.channels, name)
		delete(nm.messages, name)
	}
	return errors.Join(errs...)
}

type ChannelFactory struct{}

func NewChannelFactory() *ChannelFactory {
	return &ChannelFactory{}
}

func (cf *ChannelFactory) CreateChannel(cfg ChannelConfig) (channel.INotifyChannel, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required for %s channel %s", cfg.Type, cfg.Name)
	}
	timeout := time.Duration(cfg.Timeout) * time.Second

	var ch channel.INotifyChannel
	switch cfg.Type {
	case ChannelTypeWebhook:
		ch = channel.NewWebhookChannel(cfg.Name, cfg.URL, cfg.Method, timeout)
	case ChannelTypeSlack:
		ch = channel.NewSlackChannel(cfg.Name, cfg.URL, timeout)
	default:
		return nil, fmt.Errorf("unsupported channel type: %s", cfg.Type)
	}

	provider, err := auth.NewAuthProvider(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", cfg.Name, err)
	}
	if err := ch.SetAuth(provider); err != nil {
		return nil, fmt.Errorf("channel %s: %w", cfg.Name, err)
	}
	return ch, nil
}
