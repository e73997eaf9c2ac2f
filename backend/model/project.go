package model

import (
	"time"
)

// Project types. Determines which media slots and upload limits apply.
const (
	ProjectTypeImage = "image"
	ProjectTypeVideo = "video"
	ProjectTypeAudio = "audio"
	ProjectTypeMixed = "mixed"
)

type Category struct {
	Id          int    `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:64;uniqueIndex"`
	Description string `json:"description" gorm:"size:512"`
}

type Project struct {
	Id          int    `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200"`
	Description string `json:"description" gorm:"size:4096"`
	ProjectType string `json:"project_type" gorm:"size:16;default:image"`
	VideoURL    string `json:"video_url" gorm:"size:512"`
	OwnerId     int    `json:"owner_id" gorm:"index"`
	IsPublished bool   `json:"is_published" gorm:"default:false;index"`

	CoverImage FileRef `json:"cover_image" gorm:"embedded;embeddedPrefix:cover_"`
	VideoFile  FileRef `json:"video_file" gorm:"embedded;embeddedPrefix:video_"`
	AudioFile  FileRef `json:"audio_file" gorm:"embedded;embeddedPrefix:audio_"`

	Categories []Category     `json:"categories" gorm:"many2many:project_categories"`
	Images     []ProjectImage `json:"images" gorm:"foreignKey:ProjectId"`
	Files      []ProjectFile  `json:"files" gorm:"foreignKey:ProjectId"`

	LikeCount int64 `json:"like_count" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectImage struct {
	Id         int       `json:"id" gorm:"primaryKey"`
	ProjectId  int       `json:"project_id" gorm:"index"`
	Image      FileRef   `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	Caption    string    `json:"caption" gorm:"size:256"`
	SortOrder  int       `json:"sort_order" gorm:"default:0"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

type ProjectFile struct {
	Id          int       `json:"id" gorm:"primaryKey"`
	ProjectId   int       `json:"project_id" gorm:"index"`
	File        FileRef   `json:"file" gorm:"embedded;embeddedPrefix:file_"`
	FileType    string    `json:"file_type" gorm:"size:16"`
	Description string    `json:"description" gorm:"size:512"`
	UploadedAt  time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func GetProjectById(id int) (*Project, error) {
	var project Project
	err := DB.Preload("Categories").Preload("Images").Preload("Files").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func GetProjectsByOwner(ownerId int) ([]Project, error) {
	var projects []Project
	err := DB.Preload("Images").Preload("Files").
		Where("owner_id = ?", ownerId).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ProjectFileRows returns the lightweight rows used by the storage
// accountant. Only the embedded file columns are selected.
func ProjectFileRows(ownerId int) ([]Project, []ProjectImage, []ProjectFile, error) {
	var projects []Project
	if err := DB.Select("id", "cover_name", "cover_size", "video_name", "video_size", "audio_name", "audio_size").
		Where("owner_id = ?", ownerId).Find(&projects).Error; err != nil {
		return nil, nil, nil, err
	}
	var images []ProjectImage
	if err := DB.Select("project_images.image_name", "project_images.image_size").
		Joins("JOIN projects ON projects.id = project_images.project_id").
		Where("projects.owner_id = ?", ownerId).Find(&images).Error; err != nil {
		return projects, nil, nil, err
	}
	var files []ProjectFile
	if err := DB.Select("project_files.file_name", "project_files.file_size").
		Joins("JOIN projects ON projects.id = project_files.project_id").
		Where("projects.owner_id = ?", ownerId).Find(&files).Error; err != nil {
		return projects, images, nil, err
	}
	return projects, images, files, nil
}
