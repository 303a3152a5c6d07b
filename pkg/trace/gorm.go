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
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const gormTracerName = "github.com/go-arcade/askflow/pkg/trace/gorm"

type gormSpanKey struct{}
type gormStartKey struct{}

// GormPlugin opens a client span around every gorm statement.
type GormPlugin struct {
	// System is reported as db.system, e.g. mysql or sqlite
	System    string
	WithQuery bool
}

func (p *GormPlugin) Name() string {
	return "askflow:opentelemetry"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("otel:before_create", p.before),
		cb.Query().Before("gorm:query").Register("otel:before_query", p.before),
		cb.Update().Before("gorm:update").Register("otel:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before),
		cb.Row().Before("gorm:row").Register("otel:before_row", p.before),
		cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before),

		cb.Create().After("gorm:create").Register("otel:after_create", p.after),
		cb.Query().After("gorm:query").Register("otel:after_query", p.after),
		cb.Update().After("gorm:update").Register("otel:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after),
		cb.Row().After("gorm:row").Register("otel:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *GormPlugin) before(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	ctx, span := Tracer(gormTracerName).Start(db.Statement.Context, "gorm.statement",
		trace.WithSpanKind(trace.SpanKindClient))

	attrs := []attribute.KeyValue{attribute.String("db.system", p.System)}
	if db.Statement.Schema != nil && db.Statement.Schema.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Schema.Table))
	} else if db.Statement.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attrs...)

	ctx = context.WithValue(ctx, gormSpanKey{}, span)
	db.Statement.Context = context.WithValue(ctx, gormStartKey{}, time.Now())
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	sql := db.Statement.SQL.String()
	span.SetName("gorm." + operationName(sql))
	if p.WithQuery && sql != "" {
		span.SetAttributes(attribute.String("db.statement", sql))
	}
	if start, ok := db.Statement.Context.Value(gormStartKey{}).(time.Time); ok {
		span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(start).Milliseconds()))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
}

func operationName(sql string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	switch strings.ToUpper(verb) {
	case "INSERT":
		return "create"
	case "UPDATE":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return "query"
	}
}

// RegisterGormPlugin installs the tracing plugin on db.
func RegisterGormPlugin(db *gorm.DB, system string, withQuery bool) error {
	return db.Use(&GormPlugin{System: system, WithQuery: withQuery})
}
