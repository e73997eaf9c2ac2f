package handler

import (
	"net/http"
	"strconv"
	"time"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-gonic/gin"
)

// AdminDashboard returns the headline counters plus six months of
// signup and project growth.
func AdminDashboard(c *gin.Context) {
	type monthCount struct {
		Month    string `json:"month"`
		Users    int64  `json:"users"`
		Projects int64  `json:"projects"`
	}
	months := make([]monthCount, 0, 6)
	now := time.Now().UTC()
	for i := 5; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		var users, projects int64
		model.DB.Model(&model.User{}).
			Where("created_at >= ? AND created_at < ?", start, end).Count(&users)
		model.DB.Model(&model.Project{}).
			Where("created_at >= ? AND created_at < ?", start, end).Count(&projects)
		months = append(months, monthCount{
			Month:    start.Format("2006-01"),
			Users:    users,
			Projects: projects,
		})
	}

	var published int64
	model.DB.Model(&model.Project{}).Where("is_published = ?", true).Count(&published)

	common.RespSuccess(c, gin.H{
		"users":     model.CountTable(&model.User{}),
		"projects":  model.CountTable(&model.Project{}),
		"published": published,
		"mockups":   model.CountTable(&model.PackageMockup{}),
		"messages":  model.CountTable(&model.Message{}),
		"likes":     model.CountTable(&model.ProjectLike{}),
		"growth":    months,
	})
}

func AdminListUsers(c *gin.Context) {
	lang := c.GetString("lang")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(common.DefaultPageSize)))

	query := model.DB.Model(&model.User{})
	if keyword := c.Query("q"); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR display_name LIKE ? OR email LIKE ?", like, like, like)
	}

	order := "id ASC"
	switch c.Query("sort") {
	case "newest":
		order = "created_at DESC"
	case "username":
		order = "username ASC"
	}

	users, total, err := common.Paginate[model.User](query, page, pageSize, order)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, common.PageResult{
		Items:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// AdminToggleUserStatus flips an account between enabled and disabled.
// Admins cannot touch themselves or anyone at their level or above.
func AdminToggleUserStatus(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	user, err := model.GetUserById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	if user.Id == currentUserId(c) || user.Role >= c.GetInt("role") {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(codes.ErrPermissionDenied, lang))
		return
	}
	if user.Status == common.UserStatusEnabled {
		user.Status = common.UserStatusDisabled
	} else {
		user.Status = common.UserStatusEnabled
	}
	if err := model.DB.Model(user).Update("status", user.Status).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, user)
}

type BulkUserStatusRequest struct {
	Ids    []int `json:"ids" binding:"required,min=1"`
	Enable bool  `json:"enable"`
}

// AdminBulkUserStatus enables or disables a batch of accounts. The
// caller's own account and accounts at or above their level are
// skipped, not rejected.
func AdminBulkUserStatus(c *gin.Context) {
	lang := c.GetString("lang")
	var req BulkUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	status := common.UserStatusDisabled
	if req.Enable {
		status = common.UserStatusEnabled
	}
	updated := 0
	for _, id := range req.Ids {
		user, err := model.GetUserById(id)
		if err != nil {
			continue
		}
		if user.Id == currentUserId(c) || user.Role >= c.GetInt("role") {
			continue
		}
		if err := model.DB.Model(user).Update("status", status).Error; err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
			return
		}
		updated++
	}
	common.RespSuccess(c, gin.H{"updated": updated})
}

// AdminDeleteUser removes an account with everything it owns: projects,
// mockups and their stored files.
func AdminDeleteUser(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	user, err := model.GetUserById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	if user.Id == currentUserId(c) || user.Role >= c.GetInt("role") {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(codes.ErrPermissionDenied, lang))
		return
	}
	if err := service.DeleteProjectsByOwner(user.Id); err != nil {
		respondServiceError(c, err)
		return
	}
	mockups, _ := model.GetMockupsByOwner(user.Id)
	for i := range mockups {
		if err := service.DeleteMockup(&mockups[i]); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	if err := model.DeleteUserById(user.Id); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "user deleted")
}

func AdminListProjects(c *gin.Context) {
	lang := c.GetString("lang")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(common.DefaultPageSize)))

	query := model.DB.Model(&model.Project{}).Preload("Categories")
	if owner, err := strconv.Atoi(c.Query("owner")); err == nil && owner > 0 {
		query = query.Where("owner_id = ?", owner)
	}
	if published := c.Query("published"); published != "" {
		query = query.Where("is_published = ?", published == "true")
	}
	if keyword := c.Query("q"); keyword != "" {
		query = query.Where("title LIKE ?", "%"+keyword+"%")
	}

	projects, total, err := common.Paginate[model.Project](query, page, pageSize, "created_at DESC")
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, common.PageResult{
		Items:    projects,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

type BulkProjectRequest struct {
	Ids     []int `json:"ids" binding:"required,min=1"`
	Publish bool  `json:"publish"`
}

func AdminBulkPublish(c *gin.Context) {
	lang := c.GetString("lang")
	var req BulkProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	result := model.DB.Model(&model.Project{}).Where("id IN ?", req.Ids).
		Update("is_published", req.Publish)
	if result.Error != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), result.Error)
		return
	}
	common.RespSuccess(c, gin.H{"updated": result.RowsAffected})
}

func AdminBulkDeleteProjects(c *gin.Context) {
	lang := c.GetString("lang")
	var req BulkProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	deleted := 0
	for _, id := range req.Ids {
		project, err := model.GetProjectById(id)
		if err != nil {
			continue
		}
		if err := service.DeleteProject(project); err != nil {
			respondServiceError(c, err)
			return
		}
		deleted++
	}
	common.RespSuccess(c, gin.H{"deleted": deleted})
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=500"`
}

func AdminCreateCategory(c *gin.Context) {
	lang := c.GetString("lang")
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	category := model.Category{Name: req.Name, Description: req.Description}
	if err := model.DB.Create(&category).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, category)
}

func AdminUpdateCategory(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	var category model.Category
	if err := model.DB.First(&category, "id = ?", id).Error; err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrNotFound, lang))
		return
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := model.DB.Save(&category).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, category)
}

func AdminDeleteCategory(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var inUse int64
	model.DB.Table("project_categories").Where("category_id = ?", id).Count(&inUse)
	if inUse > 0 {
		common.RespErrorStr(c, http.StatusConflict, i18n.Translate(codes.ErrCategoryInUse, lang))
		return
	}
	if err := model.DB.Delete(&model.Category{}, "id = ?", id).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "category deleted")
}

// AdminStorageOverview lists users with their storage usage against
// the quota that applies to each.
func AdminStorageOverview(c *gin.Context) {
	lang := c.GetString("lang")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(common.DefaultPageSize)))

	users, total, err := common.Paginate[model.User](model.DB.Model(&model.User{}), page, pageSize, "id ASC")
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}

	type storageRow struct {
		UserId      int     `json:"user_id"`
		Username    string  `json:"username"`
		DisplayName string  `json:"display_name"`
		UsedBytes   int64   `json:"used_bytes"`
		QuotaMB     int     `json:"quota_mb"`
		Override    *int    `json:"override_mb"`
		UsedPercent float64 `json:"used_percent"`
		Unlimited   bool    `json:"unlimited"`
	}

	rows := make([]storageRow, 0, len(users))
	for _, user := range users {
		used := service.UsageBytes(user.Id)
		quotaMB := service.ResolveQuotaMB(user.Id)
		row := storageRow{
			UserId:      user.Id,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			UsedBytes:   used,
			QuotaMB:     quotaMB,
			Unlimited:   quotaMB <= 0,
		}
		if settings, err := model.GetStorageSettings(user.Id); err == nil {
			row.Override = settings.QuotaMB
		}
		if quotaMB > 0 {
			row.UsedPercent = float64(used) / float64(int64(quotaMB)*1024*1024) * 100
		}
		rows = append(rows, row)
	}
	common.RespSuccess(c, common.PageResult{
		Items:    rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

type QuotaRequest struct {
	QuotaMB int `json:"quota_mb"`
}

// AdminSetQuota writes a per-user override. Negative values mean
// unlimited for that user; zero is rejected since it would silently
// fall back to the global default.
func AdminSetQuota(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if _, err := model.GetUserById(id); err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	var req QuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuotaMB == 0 {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	if err := model.SetStorageQuota(id, &req.QuotaMB); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{"user_id": id, "quota_mb": req.QuotaMB})
}

// AdminResetQuota clears the override so the global default applies
// again.
func AdminResetQuota(c *gin.Context) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := model.SetStorageQuota(id, nil); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "quota reset to default")
}

func AdminResetAllQuotas(c *gin.Context) {
	lang := c.GetString("lang")
	affected, err := model.ResetAllStorageQuotas()
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{"reset": affected})
}

// AdminAnalytics aggregates the request log for the chosen period.
// Staff traffic is excluded unless include_staff=true.
func AdminAnalytics(c *gin.Context) {
	lang := c.GetString("lang")
	period := c.DefaultQuery("period", "7d")
	exclude := map[int64]bool{}
	if c.Query("include_staff") != "true" {
		exclude = service.StaffUserIds()
	}
	report, err := service.BuildTrafficReport(period, exclude)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, report)
}

// AdminPurgeLogs deletes request logs, optionally only those older than
// a number of days.
func AdminPurgeLogs(c *gin.Context) {
	lang := c.GetString("lang")
	var cutoff int64
	if days, err := strconv.Atoi(c.Query("older_than_days")); err == nil && days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days).Unix()
	}
	removed, err := model.PurgeRequestLogs(cutoff)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{"removed": removed})
}

func AdminListLocations(c *gin.Context) {
	lang := c.GetString("lang")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(common.DefaultPageSize)))

	query := model.DB.Model(&model.DeviceLocation{})
	if userId, err := strconv.Atoi(c.Query("user")); err == nil && userId > 0 {
		query = query.Where("user_id = ?", userId)
	}
	locations, total, err := common.Paginate[model.DeviceLocation](query, page, pageSize, "created_at DESC")
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, common.PageResult{
		Items:    locations,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func AdminClearLocations(c *gin.Context) {
	lang := c.GetString("lang")
	result := model.DB.Where("1 = 1").Delete(&model.DeviceLocation{})
	if result.Error != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), result.Error)
		return
	}
	common.RespSuccess(c, gin.H{"removed": result.RowsAffected})
}
