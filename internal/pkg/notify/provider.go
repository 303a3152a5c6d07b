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
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/notify/template"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideNotifyManager,
	ProvideDispatcher,
)

// ProvideNotifyManager registers the configured channels. A broken channel
// is skipped so the service still starts with the rest.
func ProvideNotifyManager(conf Config) (*NotifyManager, func(), error) {
	conf.SetDefaults()
	templates, err := template.NewTemplateEngine()
	if err != nil {
		return nil, nil, err
	}
	manager := NewNotifyManager()
	manager.SetDeliveryAttempts(conf.DeliveryAttempts)
	factory := NewChannelFactory()

	for _, cc := range conf.Channels {
		if cc.Template != "" {
			if err := templates.ValidateTemplate(cc.Template); err != nil {
				log.Warnw("skipping notify channel", "name", cc.Name, "type", cc.Type, "error", err)
				continue
			}
		}
		ch, err := factory.CreateChannel(cc)
		if err != nil {
			log.Warnw("skipping notify channel", "name", cc.Name, "type", cc.Type, "error", err)
			continue
		}
		if err := manager.RegisterChannel(ch); err != nil {
			log.Warnw("skipping notify channel", "name", cc.Name, "type", cc.Type, "error", err)
			continue
		}
		if cc.Template != "" {
			if err := manager.SetMessageTemplate(templates, cc.Name, cc.Template); err != nil {
				log.Warnw("notify channel keeps plain messages", "name", cc.Name, "error", err)
			}
		}
	}

	log.Infow("notify manager initialized", "channels", manager.ListChannels())
	cleanup := func() {
		if err := manager.Close(); err != nil {
			log.Warnw("failed to close notify channels", "error", err)
		}
	}
	return manager, cleanup, nil
}

func ProvideDispatcher(repos *repo.Repositories, manager *NotifyManager, conf Config) (*Dispatcher, error) {
	templates, err := template.NewTemplateEngine()
	if err != nil {
		return nil, err
	}
	conf.SetDefaults()
	return NewDispatcher(repos.Notification, templates, manager, conf), nil
}
