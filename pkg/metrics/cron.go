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
	"time"

	"github.com/go-arcade/askflow/pkg/cron"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "askflow"

var (
	SchedulerJobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_runs_total",
		Help:      "Scheduled job runs, by job and outcome.",
	}, []string{"job", "result"})

	SchedulerJobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Scheduled job run time.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"job"})

	SchedulerJobNextRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "job_next_run_timestamp_seconds",
		Help:      "Unix time of the next scheduled run.",
	}, []string{"job"})

	SchedulerJobs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "jobs",
		Help:      "Registered scheduled jobs.",
	})

	cronMetricsOnce sync.Once
)

// CronMetricsRecorder satisfies cron.MetricsRecorder
type CronMetricsRecorder struct{}

func (CronMetricsRecorder) RecordJobRun(jobName string, duration time.Duration, err error) {
	SchedulerJobRuns.WithLabelValues(jobName, resultLabel(err)).Inc()
	SchedulerJobDuration.WithLabelValues(jobName).Observe(duration.Seconds())
}

func (CronMetricsRecorder) UpdateNextRun(jobName string, nextRun time.Time) {
	if !nextRun.IsZero() {
		SchedulerJobNextRun.WithLabelValues(jobName).Set(float64(nextRun.Unix()))
	}
}

func (CronMetricsRecorder) UpdateJobsCount(count int) {
	SchedulerJobs.Set(float64(count))
}

// SetupCronMetrics registers the scheduler collectors and hooks the recorder
// into pkg/cron.
func SetupCronMetrics(registry prometheus.Registerer) {
	cronMetricsOnce.Do(func() {
		registry.MustRegister(SchedulerJobRuns, SchedulerJobDuration, SchedulerJobNextRun, SchedulerJobs)
	})
	cron.SetMetricsRecorder(CronMetricsRecorder{})
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
