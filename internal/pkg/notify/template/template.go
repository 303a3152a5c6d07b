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

package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-arcade/askflow/internal/engine/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Data is the variable set available to notification templates
type Data struct {
	Title string
}

// ChannelData is the variable set available to a channel message template.
// Message holds the text already rendered for the notification type.
type ChannelData struct {
	Type      string
	UserId    string
	RelatedId string
	Message   string
}

var predefined = map[model.NotificationType]string{
	model.NotifyNewQuestionAssigned:       `You have been assigned a new question: "{{.Title}}"`,
	model.NotifyNewAnswerPosted:           `A new answer was posted to your question "{{.Title}}"`,
	model.NotifyAnsweredQuestionClosed:    `The question "{{.Title}}" has been closed`,
	model.NotifyAssigneeDeadlineExceeded:  `The deadline for question "{{.Title}}" assigned to you has passed`,
	model.NotifyRequesterDeadlineExceeded: `The deadline for your question "{{.Title}}" has passed without it being closed`,
}

// TemplateEngine renders notification messages. Templates are parsed once.
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates map[model.NotificationType]*template.Template
}

func NewTemplateEngine() (*TemplateEngine, error) {
	titleCaser := cases.Title(language.English)
	e := &TemplateEngine{
		funcMap: template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
			"title": titleCaser.String,
			"trim":  strings.TrimSpace,
		},
		templates: make(map[model.NotificationType]*template.Template, len(predefined)),
	}
	for typ, content := range predefined {
		tmpl, err := e.parse(string(typ), content)
		if err != nil {
			return nil, err
		}
		e.templates[typ] = tmpl
	}
	return e, nil
}

func (e *TemplateEngine) parse(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// Render builds the message for a notification type
func (e *TemplateEngine) Render(typ model.NotificationType, data Data) (string, error) {
	tmpl, ok := e.templates[typ]
	if !ok {
		return "", fmt.Errorf("no template for notification type %s", typ)
	}
	return execute(tmpl, data)
}

// RenderString parses and renders content, used for channel message templates.
func (e *TemplateEngine) RenderString(content string, data any) (string, error) {
	tmpl, err := e.parse("inline", content)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// ValidateTemplate reports whether content parses with the engine helpers.
func (e *TemplateEngine) ValidateTemplate(content string) error {
	_, err := e.parse("validation", content)
	return err
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
