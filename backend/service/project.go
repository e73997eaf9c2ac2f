package service

import (
	"mime/multipart"

	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"

	"gorm.io/gorm"
)

// ProjectInput carries the scalar fields of a create or update request.
type ProjectInput struct {
	Title       string
	Description string
	ProjectType string
	VideoURL    string
	IsPublished bool
	CategoryIds []int
}

// ProjectUploads carries the optional media files of a create or update
// request.
type ProjectUploads struct {
	Cover  *multipart.FileHeader
	Video  *multipart.FileHeader
	Audio  *multipart.FileHeader
	Images []*multipart.FileHeader
}

func (u ProjectUploads) validate() error {
	if err := CheckFile(u.Cover, KindImage); err != nil {
		return err
	}
	if err := CheckFile(u.Video, KindVideo); err != nil {
		return err
	}
	if err := CheckFile(u.Audio, KindAudio); err != nil {
		return err
	}
	for _, img := range u.Images {
		if err := CheckFile(img, KindImage); err != nil {
			return err
		}
	}
	return nil
}

func (u ProjectUploads) totalSize() int64 {
	total := IncomingFilesSize(u.Cover, u.Video, u.Audio)
	return total + IncomingFilesSize(u.Images...)
}

// CreateProject validates the uploads, enforces the owner's quota on
// the whole batch, stores the files and records the project. Stored
// files are removed again if the database insert fails, so a rejected
// request never consumes quota.
func CreateProject(ownerId int, input ProjectInput, uploads ProjectUploads) (*model.Project, error) {
	if err := uploads.validate(); err != nil {
		return nil, err
	}
	if WouldExceed(ownerId, uploads.totalSize()) {
		return nil, i18n.New(codes.ErrQuotaExceeded)
	}

	var saved []model.FileRef
	cleanup := func() {
		for _, ref := range saved {
			DeleteRef(ref)
		}
	}

	project := model.Project{
		Title:       input.Title,
		Description: input.Description,
		ProjectType: input.ProjectType,
		VideoURL:    input.VideoURL,
		OwnerId:     ownerId,
		IsPublished: input.IsPublished,
	}

	var err error
	if uploads.Cover != nil {
		if project.CoverImage, err = SaveUpload("projects/covers", uploads.Cover, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.CoverImage)
	}
	if uploads.Video != nil {
		if project.VideoFile, err = SaveUpload("projects/videos", uploads.Video, KindVideo); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.VideoFile)
	}
	if uploads.Audio != nil {
		if project.AudioFile, err = SaveUpload("projects/audio", uploads.Audio, KindAudio); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.AudioFile)
	}

	var galleryRefs []model.FileRef
	for _, img := range uploads.Images {
		ref, err := SaveUpload("projects/gallery", img, KindImage)
		if err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, ref)
		galleryRefs = append(galleryRefs, ref)
	}

	err = model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		for i, ref := range galleryRefs {
			img := model.ProjectImage{ProjectId: project.Id, Image: ref, SortOrder: i}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return setCategories(tx, &project, input.CategoryIds)
	})
	if err != nil {
		cleanup()
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}

	postProcess(project.CoverImage, KindImage)
	postProcess(project.VideoFile, KindVideo)
	postProcess(project.AudioFile, KindAudio)
	for _, ref := range galleryRefs {
		postProcess(ref, KindImage)
	}

	return model.GetProjectById(project.Id)
}

// UpdateProject replaces the scalar fields and any uploaded media
// slots. Replaced files are deleted only after the row update sticks.
func UpdateProject(project *model.Project, input ProjectInput, uploads ProjectUploads) (*model.Project, error) {
	if err := uploads.validate(); err != nil {
		return nil, err
	}
	if WouldExceed(project.OwnerId, uploads.totalSize()) {
		return nil, i18n.New(codes.ErrQuotaExceeded)
	}

	var saved []model.FileRef
	var replaced []model.FileRef
	cleanup := func() {
		for _, ref := range saved {
			DeleteRef(ref)
		}
	}

	project.Title = input.Title
	project.Description = input.Description
	project.ProjectType = input.ProjectType
	project.VideoURL = input.VideoURL
	project.IsPublished = input.IsPublished

	var err error
	if uploads.Cover != nil {
		replaced = append(replaced, project.CoverImage)
		if project.CoverImage, err = SaveUpload("projects/covers", uploads.Cover, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.CoverImage)
	}
	if uploads.Video != nil {
		replaced = append(replaced, project.VideoFile)
		if project.VideoFile, err = SaveUpload("projects/videos", uploads.Video, KindVideo); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.VideoFile)
	}
	if uploads.Audio != nil {
		replaced = append(replaced, project.AudioFile)
		if project.AudioFile, err = SaveUpload("projects/audio", uploads.Audio, KindAudio); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, project.AudioFile)
	}

	err = model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return setCategories(tx, project, input.CategoryIds)
	})
	if err != nil {
		cleanup()
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}

	for _, ref := range replaced {
		DeleteRef(ref)
	}
	for _, ref := range saved {
		postProcess(ref, kindForDir(ref))
	}

	return model.GetProjectById(project.Id)
}

func kindForDir(ref model.FileRef) FileKind {
	switch {
	case len(ref.Name) > 15 && ref.Name[:15] == "projects/videos":
		return KindVideo
	case len(ref.Name) > 14 && ref.Name[:14] == "projects/audio":
		return KindAudio
	default:
		return KindImage
	}
}

func setCategories(tx *gorm.DB, project *model.Project, ids []int) error {
	if ids == nil {
		return nil
	}
	var categories []model.Category
	if len(ids) > 0 {
		if err := tx.Find(&categories, "id IN ?", ids).Error; err != nil {
			return err
		}
	}
	return tx.Model(project).Association("Categories").Replace(categories)
}

// DeleteProject removes the project with all dependent rows, then the
// stored files. Usage drops immediately; repeated deletes of the same
// files are harmless.
func DeleteProject(project *model.Project) error {
	refs := []model.FileRef{project.CoverImage, project.VideoFile, project.AudioFile}
	for _, img := range project.Images {
		refs = append(refs, img.Image)
	}
	for _, f := range project.Files {
		refs = append(refs, f.File)
	}

	err := model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.Id).Delete(&model.ProjectLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.Id).Delete(&model.ProjectImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.Id).Delete(&model.ProjectFile{}).Error; err != nil {
			return err
		}
		if err := tx.Model(project).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", project.Id).Error
	})
	if err != nil {
		return i18n.Wrap(codes.ErrDatabaseFailure, err)
	}

	for _, ref := range refs {
		DeleteRef(ref)
	}
	return nil
}

// DeleteProjectsByOwner removes every project a user owns, files
// included. Used when an account is deleted.
func DeleteProjectsByOwner(ownerId int) error {
	projects, err := model.GetProjectsByOwner(ownerId)
	if err != nil {
		return err
	}
	for i := range projects {
		if err := DeleteProject(&projects[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddProjectImage appends one gallery image, quota checked.
func AddProjectImage(project *model.Project, header *multipart.FileHeader, caption string) (*model.ProjectImage, error) {
	if err := CheckFile(header, KindImage); err != nil {
		return nil, err
	}
	if WouldExceed(project.OwnerId, IncomingFilesSize(header)) {
		return nil, i18n.New(codes.ErrQuotaExceeded)
	}
	ref, err := SaveUpload("projects/gallery", header, KindImage)
	if err != nil {
		return nil, err
	}
	img := model.ProjectImage{
		ProjectId: project.Id,
		Image:     ref,
		Caption:   caption,
		SortOrder: len(project.Images),
	}
	if err := model.DB.Create(&img).Error; err != nil {
		DeleteRef(ref)
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}
	postProcess(ref, KindImage)
	return &img, nil
}

func DeleteProjectImage(img *model.ProjectImage) error {
	if err := model.DB.Delete(&model.ProjectImage{}, "id = ?", img.Id).Error; err != nil {
		return i18n.Wrap(codes.ErrDatabaseFailure, err)
	}
	DeleteRef(img.Image)
	return nil
}

// AddProjectFile appends one downloadable attachment, quota checked.
func AddProjectFile(project *model.Project, header *multipart.FileHeader, kind FileKind, description string) (*model.ProjectFile, error) {
	if err := CheckFile(header, kind); err != nil {
		return nil, err
	}
	if WouldExceed(project.OwnerId, IncomingFilesSize(header)) {
		return nil, i18n.New(codes.ErrQuotaExceeded)
	}
	ref, err := SaveUpload("projects/files", header, kind)
	if err != nil {
		return nil, err
	}
	file := model.ProjectFile{
		ProjectId:   project.Id,
		File:        ref,
		FileType:    string(kind),
		Description: description,
	}
	if err := model.DB.Create(&file).Error; err != nil {
		DeleteRef(ref)
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}
	postProcess(ref, kind)
	return &file, nil
}

func DeleteProjectFile(file *model.ProjectFile) error {
	if err := model.DB.Delete(&model.ProjectFile{}, "id = ?", file.Id).Error; err != nil {
		return i18n.Wrap(codes.ErrDatabaseFailure, err)
	}
	DeleteRef(file.File)
	return nil
}
