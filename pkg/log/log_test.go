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

package log

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestSetDefaults(t *testing.T) {
	conf := SetDefaults()
	assert.Equal(t, "stdout", conf.Output)
	assert.Equal(t, "INFO", conf.Level)
	assert.Equal(t, "askflow.log", conf.Filename)
	assert.Equal(t, 7, conf.KeepHours)
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    *Conf
		wantErr bool
	}{
		{name: "stdout", conf: &Conf{Output: "stdout", Level: "INFO"}},
		{name: "file", conf: &Conf{Output: "file", Path: "/tmp/logs", Level: "DEBUG", KeepHours: 7, RotateSize: 100, RotateNum: 10}},
		{name: "file without path", conf: &Conf{Output: "file", Level: "INFO"}, wantErr: true},
		{name: "file with zero rotation", conf: &Conf{Output: "file", Path: "/tmp/logs", Level: "INFO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.conf.Output == "file" {
				assert.Positive(t, tt.conf.RotateSize)
				assert.Positive(t, tt.conf.RotateNum)
				assert.Positive(t, tt.conf.KeepHours)
				assert.NotEmpty(t, tt.conf.Filename)
			}
		})
	}
}

func TestNewLog_File(t *testing.T) {
	tmpDir := t.TempDir()
	conf := &Conf{
		Output:     "file",
		Path:       tmpDir,
		Filename:   "test.log",
		Level:      "INFO",
		KeepHours:  1,
		RotateSize: 1,
		RotateNum:  3,
	}

	logger, err := NewLog(conf)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("question created")
	logger.Warn("deadline exceeded")
	_ = logger.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "question created")
	assert.Contains(t, string(content), "WARN")
}

func TestGlobalFunctions_AutoInit(t *testing.T) {
	mu.Lock()
	sugar = nil
	logger = nil
	mu.Unlock()
	once = sync.Once{}

	Info("auto initialized")
	Infow("with fields", "project_id", "p-1")
	Warnf("warn %d", 1)

	mu.RLock()
	defer mu.RUnlock()
	assert.NotNil(t, sugar)
}

func TestWithContext(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))

	assert.NotNil(t, WithContext(context.Background()))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l := WithContext(ctx)
	require.NotNil(t, l)
	l.Infow("traced message", "question_id", "q-1")
}

func TestSync(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))
	Info("before sync")
	assert.NoError(t, Sync())
}

func TestConcurrentLogging(t *testing.T) {
	require.NoError(t, Init(SetDefaults()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debugw("concurrent", "number", n)
		}(i)
	}
	wg.Wait()
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"FATAL", zapcore.FatalLevel},
		{"INVALID", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
