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
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	Client *minio.Client
	s      *Storage
}

func newMinio(s *Storage) (*MinioStorage, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseTLS,
		Region: s.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{Client: client, s: s}, nil
}

func (m *MinioStorage) PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	fullPath := getFullPath(m.s.BasePath, objectKey)
	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	u, err := m.Client.PresignHeader(ctx, http.MethodPut, m.s.Bucket, fullPath, expires, url.Values{}, headers)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *MinioStorage) Delete(ctx context.Context, objectKey string) error {
	fullPath := getFullPath(m.s.BasePath, objectKey)
	return m.Client.RemoveObject(ctx, m.s.Bucket, fullPath, minio.RemoveObjectOptions{})
}

func (m *MinioStorage) ObjectURL(objectKey string) string {
	fullPath := getFullPath(m.s.BasePath, objectKey)
	if m.s.PublicURL != "" {
		return joinURL(m.s.PublicURL, "", fullPath)
	}
	return joinURL(scheme(m.s.UseTLS)+"://"+m.s.Endpoint, m.s.Bucket, fullPath)
}
