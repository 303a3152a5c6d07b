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

	"github.com/tencentyun/cos-go-sdk-v5"
)

type COSStorage struct {
	Client *cos.Client
	s      *Storage
}

func newCOS(s *Storage) (*COSStorage, error) {
	// COS addresses buckets by host: <bucket>.cos.<region>.myqcloud.com
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, err
	}
	if s.Bucket != "" && u.Host != "" {
		u, _ = url.Parse(scheme(true) + "://" + s.Bucket + "." + u.Host)
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  s.AccessKey,
			SecretKey: s.SecretKey,
		},
	})
	return &COSStorage{Client: client, s: s}, nil
}

func (c *COSStorage) PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	var opt any
	if contentType != "" {
		header := http.Header{}
		header.Set("Content-Type", contentType)
		opt = &cos.PresignedURLOptions{Header: &header}
	}
	u, err := c.Client.Object.GetPresignedURL(ctx, http.MethodPut, getFullPath(c.s.BasePath, objectKey),
		c.s.AccessKey, c.s.SecretKey, expires, opt)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *COSStorage) Delete(ctx context.Context, objectKey string) error {
	_, err := c.Client.Object.Delete(ctx, getFullPath(c.s.BasePath, objectKey))
	return err
}

func (c *COSStorage) ObjectURL(objectKey string) string {
	fullPath := getFullPath(c.s.BasePath, objectKey)
	if c.s.PublicURL != "" {
		return joinURL(c.s.PublicURL, "", fullPath)
	}
	return joinURL(c.Client.BaseURL.BucketURL.String(), "", fullPath)
}
