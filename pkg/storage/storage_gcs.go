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
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	Client *storage.Client
	Bucket *storage.BucketHandle
	s      *Storage
}

func newGCS(s *Storage) (*GCSStorage, error) {
	var opts []option.ClientOption
	// AccessKey names a service account credentials file
	if s.AccessKey != "" {
		opts = append(opts, option.WithCredentialsFile(s.AccessKey))
	}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStorage{Client: client, Bucket: client.Bucket(s.Bucket), s: s}, nil
}

func (g *GCSStorage) PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return g.Bucket.SignedURL(getFullPath(g.s.BasePath, objectKey), &storage.SignedURLOptions{
		Method:      http.MethodPut,
		Expires:     time.Now().Add(expires),
		ContentType: contentType,
		Scheme:      storage.SigningSchemeV4,
	})
}

func (g *GCSStorage) Delete(ctx context.Context, objectKey string) error {
	err := g.Bucket.Object(getFullPath(g.s.BasePath, objectKey)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCSStorage) ObjectURL(objectKey string) string {
	fullPath := getFullPath(g.s.BasePath, objectKey)
	if g.s.PublicURL != "" {
		return joinURL(g.s.PublicURL, "", fullPath)
	}
	return joinURL("https://storage.googleapis.com", g.s.Bucket, fullPath)
}
