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

package repo

import (
	"context"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/database"
)

// MediaReferences counts the rows that keep a media file alive.
type MediaReferences struct {
	Answers  int64
	FormData int64
}

func (m MediaReferences) Any() bool {
	return m.Answers > 0 || m.FormData > 0
}

type IMediaFileRepository interface {
	Create(ctx context.Context, f *model.MediaFile) error
	Get(ctx context.Context, fileId string) (*model.MediaFile, error)
	// List returns the files of uploaderId, or every file when it is empty.
	List(ctx context.Context, uploaderId string) ([]model.MediaFile, error)
	CountReferences(ctx context.Context, fileId string) (MediaReferences, error)
	// DeleteUnreferenced removes the file row only if nothing references it
	// at statement time and returns the number of rows removed.
	DeleteUnreferenced(ctx context.Context, fileId string) (int64, error)
}

type MediaFileRepo struct {
	db database.IDatabase
}

func NewMediaFileRepo(db database.IDatabase) IMediaFileRepository {
	return &MediaFileRepo{db: db}
}

func (r *MediaFileRepo) Create(ctx context.Context, f *model.MediaFile) error {
	return database.Conn(ctx, r.db).Create(f).Error
}

func (r *MediaFileRepo) Get(ctx context.Context, fileId string) (*model.MediaFile, error) {
	var f model.MediaFile
	if err := database.Conn(ctx, r.db).Where("file_id = ?", fileId).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *MediaFileRepo) List(ctx context.Context, uploaderId string) ([]model.MediaFile, error) {
	q := database.Conn(ctx, r.db)
	if uploaderId != "" {
		q = q.Where("uploader_id = ?", uploaderId)
	}
	var list []model.MediaFile
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

func (r *MediaFileRepo) CountReferences(ctx context.Context, fileId string) (MediaReferences, error) {
	var refs MediaReferences
	conn := database.Conn(ctx, r.db)
	n, err := Count(conn.Model(&model.Answer{}).Where("media_file_id = ?", fileId))
	if err != nil {
		return refs, err
	}
	refs.Answers = n
	n, err = Count(conn.Model(&model.AnswerFormData{}).Where("media_file_id = ?", fileId))
	if err != nil {
		return refs, err
	}
	refs.FormData = n
	return refs, nil
}

func (r *MediaFileRepo) DeleteUnreferenced(ctx context.Context, fileId string) (int64, error) {
	res := database.Conn(ctx, r.db).
		Where("file_id = ?", fileId).
		Where("NOT EXISTS (SELECT 1 FROM t_answer WHERE t_answer.media_file_id = t_media_file.file_id)").
		Where("NOT EXISTS (SELECT 1 FROM t_answer_form_data WHERE t_answer_form_data.media_file_id = t_media_file.file_id)").
		Delete(&model.MediaFile{})
	return res.RowsAffected, res.Error
}
