package model

import "time"

// PackageMockup composites a flat design onto a packaging photo. The
// placement fields are percentages except DesignRotation (degrees,
// clockwise) and MaskFeather (pixels).
type PackageMockup struct {
	Id      int    `json:"id" gorm:"primaryKey"`
	OwnerId int    `json:"owner_id" gorm:"index"`
	Title   string `json:"title" gorm:"size:200"`

	ContainerImage FileRef `json:"container_image" gorm:"embedded;embeddedPrefix:container_"`
	DesignImage    FileRef `json:"design_image" gorm:"embedded;embeddedPrefix:design_"`
	MaskImage      FileRef `json:"mask_image" gorm:"embedded;embeddedPrefix:mask_"`
	GeneratedImage FileRef `json:"generated_image" gorm:"embedded;embeddedPrefix:generated_"`

	DesignPosX     float64 `json:"design_pos_x" gorm:"default:50"`
	DesignPosY     float64 `json:"design_pos_y" gorm:"default:50"`
	DesignScale    float64 `json:"design_scale" gorm:"default:100"`
	DesignRotation float64 `json:"design_rotation" gorm:"default:0"`
	MaskOpacity    float64 `json:"mask_opacity" gorm:"default:100"`
	MaskFeather    float64 `json:"mask_feather" gorm:"default:0"`
	MaskInvert     bool    `json:"mask_invert" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func GetMockupById(id int) (*PackageMockup, error) {
	var mockup PackageMockup
	if err := DB.First(&mockup, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mockup, nil
}

func GetMockupsByOwner(ownerId int) ([]PackageMockup, error) {
	var mockups []PackageMockup
	err := DB.Where("owner_id = ?", ownerId).Order("created_at DESC").Find(&mockups).Error
	return mockups, err
}
