package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-gonic/gin"
)

// parseProjectForm pulls the scalar fields and media files out of a
// multipart create/update request.
func parseProjectForm(c *gin.Context) (service.ProjectInput, service.ProjectUploads) {
	input := service.ProjectInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ProjectType: c.DefaultPostForm("project_type", model.ProjectTypeImage),
		VideoURL:    c.PostForm("video_url"),
		IsPublished: c.PostForm("is_published") == "true",
	}
	if raw, ok := c.GetPostForm("category_ids"); ok {
		input.CategoryIds = []int{}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if id, err := strconv.Atoi(part); err == nil && id > 0 {
				input.CategoryIds = append(input.CategoryIds, id)
			}
		}
	}

	var uploads service.ProjectUploads
	if f, err := c.FormFile("cover"); err == nil {
		uploads.Cover = f
	}
	if f, err := c.FormFile("video"); err == nil {
		uploads.Video = f
	}
	if f, err := c.FormFile("audio"); err == nil {
		uploads.Audio = f
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		uploads.Images = form.File["images"]
	}
	return input, uploads
}

func validateProjectInput(c *gin.Context, input service.ProjectInput) bool {
	lang := c.GetString("lang")
	if strings.TrimSpace(input.Title) == "" || len(input.Title) > 200 {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return false
	}
	switch input.ProjectType {
	case model.ProjectTypeImage, model.ProjectTypeVideo, model.ProjectTypeAudio, model.ProjectTypeMixed:
	default:
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return false
	}
	return true
}

func CreateProject(c *gin.Context) {
	input, uploads := parseProjectForm(c)
	if !validateProjectInput(c, input) {
		return
	}
	project, err := service.CreateProject(currentUserId(c), input, uploads)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, project)
}

func UpdateProject(c *gin.Context) {
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	input, uploads := parseProjectForm(c)
	if !validateProjectInput(c, input) {
		return
	}
	updated, err := service.UpdateProject(project, input, uploads)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, updated)
}

func DeleteProject(c *gin.Context) {
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	if err := service.DeleteProject(project); err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccessStr(c, "project deleted")
}

func GetProject(c *gin.Context) {
	project, ok := loadOwnedProject(c)
	if !ok {
		return
	}
	project.LikeCount = model.CountLikes(project.Id)
	common.RespSuccess(c, project)
}

func ListOwnProjects(c *gin.Context) {
	lang := c.GetString("lang")
	projects, err := model.GetProjectsByOwner(currentUserId(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	for i := range projects {
		projects[i].LikeCount = model.CountLikes(projects[i].Id)
	}
	common.RespSuccess(c, projects)
}

// ListPublishedProjects is the public gallery with search, filters and
// pagination.
func ListPublishedProjects(c *gin.Context) {
	lang := c.GetString("lang")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(common.DefaultPageSize)))

	query := model.DB.Model(&model.Project{}).
		Preload("Categories").Preload("Images").
		Where("is_published = ?", true)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("project_type = ?", t)
	}
	if categoryId, err := strconv.Atoi(c.Query("category")); err == nil && categoryId > 0 {
		query = query.
			Joins("JOIN project_categories pc ON pc.project_id = projects.id").
			Where("pc.category_id = ?", categoryId)
	}

	order := "created_at DESC"
	switch c.Query("sort") {
	case "oldest":
		order = "created_at ASC"
	case "title":
		order = "title ASC"
	}

	projects, total, err := common.Paginate[model.Project](query, page, pageSize, order)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	for i := range projects {
		projects[i].LikeCount = model.CountLikes(projects[i].Id)
	}
	common.RespSuccess(c, common.PageResult{
		Items:    projects,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetPublishedProject serves the public detail page. Owners and admins
// can also see their unpublished drafts here.
func GetPublishedProject(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	project, err := model.GetProjectById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrProjectMissing, lang))
		return
	}
	viewerId := currentUserId(c)
	if !project.IsPublished && project.OwnerId != viewerId && c.GetInt("role") < common.RoleAdminUser {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrProjectMissing, lang))
		return
	}
	project.LikeCount = model.CountLikes(project.Id)
	liked := viewerId != 0 && model.IsLikedBy(viewerId, project.Id)
	common.RespSuccess(c, gin.H{
		"project": project,
		"liked":   liked,
	})
}

// ToggleLike flips the caller's like on a published project.
func ToggleLike(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	project, err := model.GetProjectById(id)
	if err != nil || !project.IsPublished {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrProjectMissing, lang))
		return
	}
	liked, err := model.ToggleLike(currentUserId(c), project.Id)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{
		"liked": liked,
		"likes": model.CountLikes(project.Id),
	})
}

func ListCategories(c *gin.Context) {
	lang := c.GetString("lang")
	var categories []model.Category
	if err := model.DB.Order("name ASC").Find(&categories).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, categories)
}

func formFileOrNil(c *gin.Context, field string) *multipart.FileHeader {
	f, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return f
}
