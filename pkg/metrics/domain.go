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

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	QuestionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "question",
		Name:      "created_total",
		Help:      "Questions created.",
	})

	QuestionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "question",
		Name:      "transitions_total",
		Help:      "Question status transitions, by source and target status.",
	}, []string{"from", "to"})

	AnswersPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "answer",
		Name:      "posted_total",
		Help:      "Answers posted.",
	})

	NotificationsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "dispatched_total",
		Help:      "Notifications dispatched, by type and outcome.",
	}, []string{"type", "result"})

	DeletionGuardRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "guard",
		Name:      "rejections_total",
		Help:      "Deletes vetoed because dependent records exist.",
	}, []string{"resource"})

	domainMetricsOnce sync.Once
)

// RegisterDomainMetrics adds the business counters to registry. The counters
// are package level so services can record without holding the server.
func RegisterDomainMetrics(registry prometheus.Registerer) {
	domainMetricsOnce.Do(func() {
		registry.MustRegister(
			QuestionsCreated,
			QuestionTransitions,
			AnswersPosted,
			NotificationsDispatched,
			DeletionGuardRejections,
		)
	})
}

func RecordNotification(notificationType string, err error) {
	NotificationsDispatched.WithLabelValues(notificationType, resultLabel(err)).Inc()
}
