package service

import (
	"fmt"

	"artfolio/backend/common"
	"artfolio/backend/library/storage"
	"artfolio/backend/model"
)

// UsageBytes totals the stored bytes attributed to a user: project
// media, gallery images, attachments and mockup assets. Database
// failures degrade to a partial sum rather than an error, so quota
// checks stay usable when a single query misbehaves.
func UsageBytes(userId int) int64 {
	var total int64

	projects, images, files, err := model.ProjectFileRows(userId)
	if err != nil {
		common.SysError(fmt.Sprintf("storage usage query failed for user %d: %v", userId, err))
	}
	for _, p := range projects {
		total += storage.ResolveSize(Store, p.CoverImage)
		total += storage.ResolveSize(Store, p.VideoFile)
		total += storage.ResolveSize(Store, p.AudioFile)
	}
	for _, img := range images {
		total += storage.ResolveSize(Store, img.Image)
	}
	for _, f := range files {
		total += storage.ResolveSize(Store, f.File)
	}

	mockups, err := model.GetMockupsByOwner(userId)
	if err != nil {
		common.SysError(fmt.Sprintf("mockup usage query failed for user %d: %v", userId, err))
	}
	for _, m := range mockups {
		total += storage.ResolveSize(Store, m.ContainerImage)
		total += storage.ResolveSize(Store, m.DesignImage)
		total += storage.ResolveSize(Store, m.MaskImage)
		total += storage.ResolveSize(Store, m.GeneratedImage)
	}

	return total
}
