package model

type MediaFile struct {
	BaseModel
	FileId     string `gorm:"column:file_id;type:varchar(64);uniqueIndex;not null" json:"fileId"`
	UploaderId string `gorm:"column:uploader_id;type:varchar(64);index;not null" json:"uploaderId"`
	ObjectKey  string `gorm:"column:object_key;type:varchar(512);uniqueIndex;not null" json:"objectKey"`
	StorageUrl string `gorm:"column:storage_url;type:varchar(1024)" json:"storageUrl"`
	FileName   string `gorm:"column:file_name;type:varchar(255);not null" json:"fileName"`
	FileType   string `gorm:"column:file_type;type:varchar(128)" json:"fileType"`
	FileSize   int64  `gorm:"column:file_size" json:"fileSize"`
}

func (MediaFile) TableName() string {
	return "t_media_file"
}
