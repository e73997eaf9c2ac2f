package handler

import (
	"net/http"
	"path/filepath"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-gonic/gin"
)

func AddProjectImage(c *gin.Context) {
	lang := c.GetString("lang")
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	header := formFileOrNil(c, "image")
	if header == nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	img, err := service.AddProjectImage(project, header, c.PostForm("caption"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, img)
}

func DeleteProjectImage(c *gin.Context) {
	lang := c.GetString("lang")
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	imageId, ok := pathId(c, "imageId")
	if !ok {
		return
	}
	var img model.ProjectImage
	if err := model.DB.First(&img, "id = ? AND project_id = ?", imageId, project.Id).Error; err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrNotFound, lang))
		return
	}
	if err := service.DeleteProjectImage(&img); err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccessStr(c, "image deleted")
}

func AddProjectFile(c *gin.Context) {
	lang := c.GetString("lang")
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	header := formFileOrNil(c, "file")
	if header == nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	kind := service.FileKind(c.DefaultPostForm("file_type", string(service.KindDocument)))
	switch kind {
	case service.KindImage, service.KindVideo, service.KindAudio, service.KindDocument:
	default:
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	file, err := service.AddProjectFile(project, header, kind, c.PostForm("description"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, file)
}

func DeleteProjectFile(c *gin.Context) {
	lang := c.GetString("lang")
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	fileId, ok := pathId(c, "fileId")
	if !ok {
		return
	}
	var file model.ProjectFile
	if err := model.DB.First(&file, "id = ? AND project_id = ?", fileId, project.Id).Error; err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrNotFound, lang))
		return
	}
	if err := service.DeleteProjectFile(&file); err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccessStr(c, "file deleted")
}

// DownloadProjectFile streams a stored attachment. The storage backend
// rejects names escaping the upload root.
func DownloadProjectFile(c *gin.Context) {
	lang := c.GetString("lang")
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	fileId, ok := pathId(c, "fileId")
	if !ok {
		return
	}
	var file model.ProjectFile
	if err := model.DB.First(&file, "id = ? AND project_id = ?", fileId, project.Id).Error; err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrNotFound, lang))
		return
	}
	path := service.Store.Path(file.File.Name)
	if path == "" || !service.Store.Exists(file.File.Name) {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrNotFound, lang))
		return
	}
	c.FileAttachment(path, filepath.Base(file.File.Name))
}
