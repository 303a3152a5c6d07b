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

package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFullPath(t *testing.T) {
	tests := []struct {
		basePath string
		name     string
		want     string
	}{
		{"", "a.png", "a.png"},
		{"", "/a.png", "a.png"},
		{"uploads", "a.png", "uploads/a.png"},
		{"/uploads/", "media/a.png", "uploads/media/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.basePath+"|"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getFullPath(tt.basePath, tt.name))
		})
	}
}

func TestNewStorage_Errors(t *testing.T) {
	_, err := NewStorage(&Storage{Provider: StorageMinio})
	assert.Error(t, err)

	_, err = NewStorage(&Storage{Provider: "ftp", Bucket: "b"})
	assert.ErrorContains(t, err, "unsupported storage provider")
}

func TestProvideStorage_NoBucket(t *testing.T) {
	p, err := ProvideStorage(Storage{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSetDefaults(t *testing.T) {
	s := &Storage{}
	s.SetDefaults()
	assert.Equal(t, StorageMinio, s.Provider)
	assert.Equal(t, 15*time.Minute, s.Expiry())
	assert.Equal(t, "us-east-1", s.Region)
}

func TestNewObjectKey(t *testing.T) {
	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)

	key := NewObjectKey("Report.PDF", now)
	assert.True(t, strings.HasPrefix(key, "media/2025/01/31/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	other := NewObjectKey("Report.PDF", now)
	assert.NotEqual(t, key, other)

	assert.False(t, strings.Contains(NewObjectKey("noext", now), "."))
	assert.True(t, strings.HasSuffix(NewObjectKey(`C:\tmp\x.png`, now), ".png"))
}

func newTestConf(provider string) *Storage {
	s := &Storage{
		Provider:  provider,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Endpoint:  "localhost:9000",
		Bucket:    "askflow",
		BasePath:  "dev",
	}
	s.SetDefaults()
	return s
}

func TestMinioStorage_PresignPut(t *testing.T) {
	p, err := NewStorage(newTestConf(StorageMinio))
	require.NoError(t, err)

	u, err := p.PresignPut(context.Background(), "media/a.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "/askflow/dev/media/a.png")
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=60")

	assert.Equal(t, "http://localhost:9000/askflow/dev/media/a.png", p.ObjectURL("media/a.png"))
}

func TestS3Storage_PresignPut(t *testing.T) {
	conf := newTestConf(StorageS3)
	conf.Endpoint = "http://localhost:9000"
	p, err := NewStorage(conf)
	require.NoError(t, err)

	u, err := p.PresignPut(context.Background(), "media/a.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "localhost:9000/askflow/dev/media/a.png")
	assert.Contains(t, u, "X-Amz-Signature=")

	assert.Equal(t, "http://localhost:9000/askflow/dev/media/a.png", p.ObjectURL("media/a.png"))
}

func TestObjectURL_PublicURL(t *testing.T) {
	conf := newTestConf(StorageMinio)
	conf.PublicURL = "https://cdn.example.com/"
	p, err := NewStorage(conf)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/dev/k.png", p.ObjectURL("k.png"))
}
