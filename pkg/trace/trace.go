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

package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ExporterNone     = "none"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

type TraceConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"serviceName"`
	ServiceVersion string `mapstructure:"serviceVersion"`
	// ExporterType is one of "none", "otlp-grpc" or "otlp-http"
	ExporterType string `mapstructure:"exporterType"`
	// Endpoint is host:port for both OTLP exporters, e.g. localhost:4317
	Endpoint    string            `mapstructure:"endpoint"`
	Insecure    bool              `mapstructure:"insecure"`
	Headers     map[string]string `mapstructure:"headers"`
	BatchConfig BatchConfig       `mapstructure:"batch"`
}

type BatchConfig struct {
	MaxQueueSize       int           `mapstructure:"maxQueueSize"`
	BatchTimeout       time.Duration `mapstructure:"batchTimeout"`
	ExportTimeout      time.Duration `mapstructure:"exportTimeout"`
	MaxExportBatchSize int           `mapstructure:"maxExportBatchSize"`
}

func (c *TraceConfig) SetDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "askflow"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.GetVersion().Version
	}
	if c.ExporterType == "" {
		c.ExporterType = ExporterNone
	}
	if c.BatchConfig.MaxQueueSize == 0 {
		c.BatchConfig.MaxQueueSize = 2048
	}
	// viper decodes a bare number as nanoseconds; treat small values as seconds
	if c.BatchConfig.BatchTimeout == 0 {
		c.BatchConfig.BatchTimeout = 5 * time.Second
	} else if c.BatchConfig.BatchTimeout < time.Second {
		c.BatchConfig.BatchTimeout *= time.Second
	}
	if c.BatchConfig.ExportTimeout == 0 {
		c.BatchConfig.ExportTimeout = 30 * time.Second
	} else if c.BatchConfig.ExportTimeout < time.Second {
		c.BatchConfig.ExportTimeout *= time.Second
	}
	if c.BatchConfig.MaxExportBatchSize == 0 {
		c.BatchConfig.MaxExportBatchSize = 512
	}
}

// Init installs the global tracer provider and returns its shutdown func.
// When tracing is disabled a noop provider is installed.
func Init(cfg TraceConfig) (func(context.Context) error, error) {
	cfg.SetDefaults()

	if !cfg.Enabled || cfg.ExporterType == ExporterNone {
		otel.SetTracerProvider(noop.NewTracerProvider())
		log.Info("OpenTelemetry tracing disabled, using noop tracer")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(
		exporter,
		sdktrace.WithMaxQueueSize(cfg.BatchConfig.MaxQueueSize),
		sdktrace.WithBatchTimeout(cfg.BatchConfig.BatchTimeout),
		sdktrace.WithExportTimeout(cfg.BatchConfig.ExportTimeout),
		sdktrace.WithMaxExportBatchSize(cfg.BatchConfig.MaxExportBatchSize),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Infow("OpenTelemetry tracing initialized",
		"exporter", cfg.ExporterType,
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)

	return tp.Shutdown, nil
}

func newExporter(cfg TraceConfig) (sdktrace.SpanExporter, error) {
	switch cfg.ExporterType {
	case ExporterOTLPGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		return otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	case ExporterOTLPHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.ExporterType)
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
