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
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideStorage)

const (
	StorageMinio = "minio"
	StorageS3    = "s3"
	StorageOSS   = "oss"
	StorageGCS   = "gcs"
	StorageCOS   = "cos"
)

// Provider signs uploads and removes objects. Clients PUT the bytes
// directly to the returned URL; the service never proxies file content.
type Provider interface {
	// PresignPut returns a URL accepting a single PUT of objectKey
	PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)
	// Delete removes objectKey; deleting a missing object is not an error
	Delete(ctx context.Context, objectKey string) error
	// ObjectURL is the stable location stored with the file metadata
	ObjectURL(objectKey string) string
}

type Storage struct {
	Provider  string `mapstructure:"provider"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseTLS    bool   `mapstructure:"useTLS"`
	BasePath  string `mapstructure:"basePath"`
	// PublicURL overrides the base of ObjectURL, e.g. a CDN domain
	PublicURL string `mapstructure:"publicURL"`
	// PresignExpiry is the upload URL lifetime in seconds
	PresignExpiry int `mapstructure:"presignExpiry"`
}

func (s *Storage) SetDefaults() {
	if s.Provider == "" {
		s.Provider = StorageMinio
	}
	if s.PresignExpiry <= 0 {
		s.PresignExpiry = 900
	}
	if s.Region == "" {
		s.Region = "us-east-1"
	}
}

func (s *Storage) Expiry() time.Duration {
	return time.Duration(s.PresignExpiry) * time.Second
}

// ProvideStorage returns a nil Provider when no bucket is configured; media
// uploads then fail with an internal error while the rest of the API works.
func ProvideStorage(conf Storage) (Provider, error) {
	conf.SetDefaults()
	if conf.Bucket == "" {
		log.Warnw("object storage not configured, media uploads are disabled", "provider", conf.Provider)
		return nil, nil
	}
	return NewStorage(&conf)
}

func NewStorage(s *Storage) (Provider, error) {
	if s.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	switch s.Provider {
	case StorageMinio:
		return newMinio(s)
	case StorageS3:
		return newS3(s)
	case StorageOSS:
		return newOSS(s)
	case StorageGCS:
		return newGCS(s)
	case StorageCOS:
		return newCOS(s)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", s.Provider)
	}
}

// NewObjectKey builds a collision-free key that keeps the file extension,
// grouped by upload day: media/2025/01/31/<ulid>.png
func NewObjectKey(fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	if len(ext) > 16 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	return path.Join("media", now.UTC().Format("2006/01/02"), id.GetUlid()+ext)
}

func getFullPath(basePath, objectName string) string {
	objectName = strings.TrimPrefix(objectName, "/")
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		return objectName
	}
	return path.Join(basePath, objectName)
}

func joinURL(base, bucket, key string) string {
	base = strings.TrimRight(base, "/")
	if bucket == "" {
		return base + "/" + key
	}
	return base + "/" + bucket + "/" + key
}

func scheme(useTLS bool) string {
	if useTLS {
		return "https"
	}
	return "http"
}
