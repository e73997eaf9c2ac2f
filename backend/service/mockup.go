package service

import (
	"fmt"
	"mime/multipart"
	"time"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/library/imaging"
	"artfolio/backend/model"
)

// MockupInput carries the scalar fields of a mockup create or update.
type MockupInput struct {
	Title          string
	DesignPosX     float64
	DesignPosY     float64
	DesignScale    float64
	DesignRotation float64
	MaskOpacity    float64
	MaskFeather    float64
	MaskInvert     bool
	ClearMask      bool
}

// MockupUploads carries the optional asset files.
type MockupUploads struct {
	Container *multipart.FileHeader
	Design    *multipart.FileHeader
	Mask      *multipart.FileHeader
}

func (u MockupUploads) validate() error {
	if err := CheckFile(u.Container, KindImage); err != nil {
		return err
	}
	if err := CheckFile(u.Design, KindImage); err != nil {
		return err
	}
	return CheckFile(u.Mask, KindImage)
}

func (u MockupUploads) totalSize() int64 {
	return IncomingFilesSize(u.Container, u.Design, u.Mask)
}

// CreateMockup stores the assets, records the mockup and renders the
// first preview. Stored files are removed if the insert fails.
func CreateMockup(ownerId int, input MockupInput, uploads MockupUploads) (*model.PackageMockup, error) {
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

	mockup := model.PackageMockup{
		OwnerId:        ownerId,
		Title:          input.Title,
		DesignPosX:     input.DesignPosX,
		DesignPosY:     input.DesignPosY,
		DesignScale:    input.DesignScale,
		DesignRotation: input.DesignRotation,
		MaskOpacity:    input.MaskOpacity,
		MaskFeather:    input.MaskFeather,
		MaskInvert:     input.MaskInvert,
	}

	var err error
	if uploads.Container != nil {
		if mockup.ContainerImage, err = SaveUpload("mockups/containers", uploads.Container, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.ContainerImage)
	}
	if uploads.Design != nil {
		if mockup.DesignImage, err = SaveUpload("mockups/designs", uploads.Design, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.DesignImage)
	}
	if uploads.Mask != nil {
		if mockup.MaskImage, err = SaveUpload("mockups/masks", uploads.Mask, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.MaskImage)
	}

	if err := model.DB.Create(&mockup).Error; err != nil {
		cleanup()
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}

	ComposeMockup(&mockup)
	return &mockup, nil
}

// UpdateMockup replaces scalar fields and any uploaded assets, then
// re-renders the preview.
func UpdateMockup(mockup *model.PackageMockup, input MockupInput, uploads MockupUploads) (*model.PackageMockup, error) {
	if err := uploads.validate(); err != nil {
		return nil, err
	}
	if WouldExceed(mockup.OwnerId, uploads.totalSize()) {
		return nil, i18n.New(codes.ErrQuotaExceeded)
	}

	var saved []model.FileRef
	var replaced []model.FileRef
	cleanup := func() {
		for _, ref := range saved {
			DeleteRef(ref)
		}
	}

	mockup.Title = input.Title
	mockup.DesignPosX = input.DesignPosX
	mockup.DesignPosY = input.DesignPosY
	mockup.DesignScale = input.DesignScale
	mockup.DesignRotation = input.DesignRotation
	mockup.MaskOpacity = input.MaskOpacity
	mockup.MaskFeather = input.MaskFeather
	mockup.MaskInvert = input.MaskInvert

	var err error
	if uploads.Container != nil {
		replaced = append(replaced, mockup.ContainerImage)
		if mockup.ContainerImage, err = SaveUpload("mockups/containers", uploads.Container, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.ContainerImage)
	}
	if uploads.Design != nil {
		replaced = append(replaced, mockup.DesignImage)
		if mockup.DesignImage, err = SaveUpload("mockups/designs", uploads.Design, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.DesignImage)
	}
	if uploads.Mask != nil {
		replaced = append(replaced, mockup.MaskImage)
		if mockup.MaskImage, err = SaveUpload("mockups/masks", uploads.Mask, KindImage); err != nil {
			cleanup()
			return nil, err
		}
		saved = append(saved, mockup.MaskImage)
	} else if input.ClearMask && !mockup.MaskImage.IsZero() {
		replaced = append(replaced, mockup.MaskImage)
		mockup.MaskImage = model.FileRef{}
	}

	if err := model.DB.Save(mockup).Error; err != nil {
		cleanup()
		return nil, i18n.Wrap(codes.ErrDatabaseFailure, err)
	}

	for _, ref := range replaced {
		DeleteRef(ref)
	}

	ComposeMockup(mockup)
	return mockup, nil
}

// DeleteMockup removes the row, then all four stored assets.
func DeleteMockup(mockup *model.PackageMockup) error {
	if err := model.DB.Delete(&model.PackageMockup{}, "id = ?", mockup.Id).Error; err != nil {
		return i18n.Wrap(codes.ErrDatabaseFailure, err)
	}
	DeleteRef(mockup.ContainerImage)
	DeleteRef(mockup.DesignImage)
	DeleteRef(mockup.MaskImage)
	DeleteRef(mockup.GeneratedImage)
	return nil
}

// ComposeMockup renders the preview image and updates the row. Any
// failure is logged and swallowed; the mockup stays editable with its
// previous preview gone at worst.
func ComposeMockup(mockup *model.PackageMockup) {
	if mockup.ContainerImage.IsZero() || mockup.DesignImage.IsZero() {
		return
	}
	if !Sanitizer.Enabled {
		return
	}

	container, err := Store.Read(mockup.ContainerImage.Name)
	if err != nil {
		common.SysError(fmt.Sprintf("mockup %d: read container: %v", mockup.Id, err))
		return
	}
	design, err := Store.Read(mockup.DesignImage.Name)
	if err != nil {
		common.SysError(fmt.Sprintf("mockup %d: read design: %v", mockup.Id, err))
		return
	}
	var mask []byte
	if !mockup.MaskImage.IsZero() {
		mask, err = Store.Read(mockup.MaskImage.Name)
		if err != nil {
			common.SysError(fmt.Sprintf("mockup %d: read mask: %v", mockup.Id, err))
			mask = nil
		}
	}

	rendered, err := imaging.Compose(container, design, mask, imaging.Placement{
		PosX:        mockup.DesignPosX,
		PosY:        mockup.DesignPosY,
		Scale:       mockup.DesignScale,
		Rotation:    mockup.DesignRotation,
		MaskOpacity: mockup.MaskOpacity,
		MaskFeather: mockup.MaskFeather,
		MaskInvert:  mockup.MaskInvert,
	})
	if err != nil {
		common.SysError(fmt.Sprintf("mockup %d: compose: %v", mockup.Id, err))
		return
	}

	old := mockup.GeneratedImage
	ts := time.Now().Unix()
	name := fmt.Sprintf("mockups/generated/mockup_%d_%d.jpg", mockup.Id, ts)
	// Re-rendering within the same second must not reuse the old name,
	// or the delete below would remove the fresh preview.
	if name == old.Name {
		ts++
		name = fmt.Sprintf("mockups/generated/mockup_%d_%d.jpg", mockup.Id, ts)
	}
	stored, err := Store.Save(name, rendered)
	if err != nil {
		common.SysError(fmt.Sprintf("mockup %d: save preview: %v", mockup.Id, err))
		return
	}

	mockup.GeneratedImage = model.FileRef{Name: stored, Size: int64(len(rendered))}
	err = model.DB.Model(mockup).
		Select("generated_name", "generated_size").
		Updates(map[string]interface{}{
			"generated_name": mockup.GeneratedImage.Name,
			"generated_size": mockup.GeneratedImage.Size,
		}).Error
	if err != nil {
		common.SysError(fmt.Sprintf("mockup %d: record preview: %v", mockup.Id, err))
		DeleteRef(mockup.GeneratedImage)
		mockup.GeneratedImage = old
		return
	}
	DeleteRef(old)
}
