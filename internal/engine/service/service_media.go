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

package service

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	"github.com/go-arcade/askflow/pkg/id"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/storage"
)

const objectKeyPrefix = "media/"

var (
	errStorageDisabled = apperr.Internal("blob storage is not configured", nil)
	errNotUploader     = apperr.Forbidden("only the uploader or an admin can do this")
)

type UploadURLReq struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type UploadURL struct {
	ObjectKey  string `json:"objectKey"`
	UploadUrl  string `json:"uploadUrl"`
	StorageUrl string `json:"storageUrl"`
	ExpiresIn  int    `json:"expiresIn"`
}

type RegisterMediaReq struct {
	ObjectKey string `json:"objectKey"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
}

type MediaService struct {
	repos   *repo.Repositories
	blobs   storage.Provider
	expires time.Duration
	clock   clock
}

// NewMediaService accepts a nil provider; upload URLs then fail and blob
// deletes are skipped.
func NewMediaService(repos *repo.Repositories, blobs storage.Provider, expires time.Duration) *MediaService {
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	return &MediaService{repos: repos, blobs: blobs, expires: expires}
}

func (s *MediaService) CreateUploadURL(ctx context.Context, identity *model.Identity, req *UploadURLReq) (*UploadURL, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" || path.Base(fileName) != fileName {
		return nil, apperr.Validation("a plain fileName is required")
	}
	if s.blobs == nil {
		return nil, errStorageDisabled
	}

	key := storage.NewObjectKey(fileName, s.clock.now())
	url, err := s.blobs.PresignPut(ctx, key, req.ContentType, s.expires)
	if err != nil {
		return nil, apperr.Internal("failed to sign upload url", err)
	}
	return &UploadURL{
		ObjectKey:  key,
		UploadUrl:  url,
		StorageUrl: s.blobs.ObjectURL(key),
		ExpiresIn:  int(s.expires.Seconds()),
	}, nil
}

// RegisterMediaFile records an object the caller uploaded through an
// upload URL.
func (s *MediaService) RegisterMediaFile(ctx context.Context, identity *model.Identity, req *RegisterMediaReq) (*model.MediaFile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(req.ObjectKey)
	if !strings.HasPrefix(key, objectKeyPrefix) || strings.Contains(key, "..") {
		return nil, apperr.Validation("objectKey must come from an upload url")
	}
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = path.Base(key)
	}
	if req.FileSize < 0 {
		return nil, apperr.Validation("fileSize cannot be negative")
	}

	f := &model.MediaFile{
		FileId:     id.GetUUID(),
		UploaderId: identity.Id,
		ObjectKey:  key,
		FileName:   fileName,
		FileType:   strings.TrimSpace(req.FileType),
		FileSize:   req.FileSize,
	}
	if s.blobs != nil {
		f.StorageUrl = s.blobs.ObjectURL(key)
	}
	if err := s.repos.MediaFile.Create(ctx, f); err != nil {
		return nil, apperr.FromStore("media file", err)
	}
	return f, nil
}

func (s *MediaService) ListMediaFiles(ctx context.Context, identity *model.Identity) ([]model.MediaFile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	uploader := identity.Id
	if identity.IsAdmin() {
		uploader = ""
	}
	list, err := s.repos.MediaFile.List(ctx, uploader)
	if err != nil {
		return nil, apperr.FromStore("media file", err)
	}
	return list, nil
}

func (s *MediaService) GetMediaFile(ctx context.Context, identity *model.Identity, fileId string) (*model.MediaFile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	f, err := s.repos.MediaFile.Get(ctx, fileId)
	if err != nil {
		return nil, apperr.FromStore("media file", err)
	}
	if f.UploaderId != identity.Id && !identity.IsAdmin() {
		return nil, errNotUploader
	}
	return f, nil
}

// DeleteMediaFile deletes an unreferenced file. The row goes first inside a
// transaction, the blob after commit on a best effort basis.
func (s *MediaService) DeleteMediaFile(ctx context.Context, identity *model.Identity, fileId string) error {
	f, err := s.GetMediaFile(ctx, identity, fileId)
	if err != nil {
		return err
	}

	err = s.repos.InTx(ctx, func(ctx context.Context) error {
		refs, err := s.repos.MediaFile.CountReferences(ctx, fileId)
		if err != nil {
			return err
		}
		if refs.Any() {
			metrics.DeletionGuardRejections.WithLabelValues("media_file").Inc()
			return apperr.Newf(apperr.KindConflict,
				"media file is still referenced by %d answer(s) and %d form submission(s)", refs.Answers, refs.FormData)
		}
		deleted, err := s.repos.MediaFile.DeleteUnreferenced(ctx, fileId)
		if err != nil {
			return err
		}
		if deleted == 0 {
			metrics.DeletionGuardRejections.WithLabelValues("media_file").Inc()
			return apperr.Conflict("media file became referenced while deleting")
		}
		return nil
	})
	if err != nil {
		return apperr.FromStore("media file", err)
	}
	log.WithContext(ctx).Infow("media file deleted", "fileId", fileId, "by", identity.Id)

	if s.blobs == nil {
		return nil
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), f.ObjectKey); err != nil {
		log.WithContext(ctx).Errorw("failed to delete blob, object left for cleanup",
			"fileId", fileId,
			"objectKey", f.ObjectKey,
			"error", err,
		)
	}
	return nil
}
