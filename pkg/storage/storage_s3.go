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
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Storage struct {
	Client  *s3.Client
	presign *s3.PresignClient
	s       *Storage
}

func newS3(s *Storage) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
		config.WithRegion(s.Region),
	}
	if s.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(s.Endpoint))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// custom endpoints (ceph, r2, localstack) rarely support virtual hosts
		o.UsePathStyle = s.Endpoint != ""
	})
	return &S3Storage{Client: client, presign: s3.NewPresignClient(client), s: s}, nil
}

func (s *S3Storage) PresignPut(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.s.Bucket),
		Key:    aws.String(getFullPath(s.s.BasePath, objectKey)),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3Storage) Delete(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s.Bucket),
		Key:    aws.String(getFullPath(s.s.BasePath, objectKey)),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil
	}
	return err
}

func (s *S3Storage) ObjectURL(objectKey string) string {
	fullPath := getFullPath(s.s.BasePath, objectKey)
	switch {
	case s.s.PublicURL != "":
		return joinURL(s.s.PublicURL, "", fullPath)
	case s.s.Endpoint != "":
		return joinURL(s.s.Endpoint, s.s.Bucket, fullPath)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s.Bucket, s.s.Region, fullPath)
	}
}
