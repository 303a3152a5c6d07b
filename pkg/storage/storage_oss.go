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
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSStorage struct {
	Client *oss.Client
	Bucket *oss.Bucket
	s      *Storage
}

func newOSS(s *Storage) (*OSSStorage, error) {
	client, err := oss.New(s.Endpoint, s.AccessKey, s.SecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(s.Bucket)
	if err != nil {
		return nil, err
	}
	return &OSSStorage{Client: client, Bucket: bucket, s: s}, nil
}

func (o *OSSStorage) PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	var opts []oss.Option
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	return o.Bucket.SignURL(getFullPath(o.s.BasePath, objectKey), oss.HTTPPut, int64(expires.Seconds()), opts...)
}

func (o *OSSStorage) Delete(ctx context.Context, objectKey string) error {
	return o.Bucket.DeleteObject(getFullPath(o.s.BasePath, objectKey))
}

func (o *OSSStorage) ObjectURL(objectKey string) string {
	fullPath := getFullPath(o.s.BasePath, objectKey)
	if o.s.PublicURL != "" {
		return joinURL(o.s.PublicURL, "", fullPath)
	}
	host := strings.TrimPrefix(strings.TrimPrefix(o.s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("%s://%s.%s/%s", scheme(o.s.UseTLS), o.s.Bucket, host, fullPath)
}
