package handler

import (
	"net/http"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=20,alphanum"`
	Password    string `json:"password" binding:"required,min=8,max=64"`
	DisplayName string `json:"display_name" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
}

func Register(c *gin.Context) {
	lang := c.GetString("lang")
	if !model.GetBoolOption(common.OptionRegisterEnabled) {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(codes.ErrRegisterDisabled, lang))
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang)+": "+err.Error())
		return
	}
	if model.IsUsernameTaken(req.Username) {
		common.RespErrorStr(c, http.StatusConflict, i18n.Translate(codes.ErrUsernameTaken, lang))
		return
	}
	user := model.User{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	if user.DisplayName == "" {
		user.DisplayName = req.Username
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "registration succeeded")
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	lang := c.GetString("lang")
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	user := model.User{Username: req.Username, Password: req.Password}
	if err := user.ValidateAndFill(); err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, i18n.Translate(codes.ErrWrongCredentials, lang))
		return
	}

	session := sessions.Default(c)
	session.Set("id", user.Id)
	session.Set("username", user.Username)
	session.Set("role", user.Role)
	session.Set("status", user.Status)
	if err := session.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrInternalServer, lang), err)
		return
	}

	jwtToken, err := service.GenerateJWT(user.Id, user.Username, user.Role)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{
		"user":  user,
		"token": jwtToken,
	})
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	common.RespSuccessStr(c, "logged out")
}

func GetSelf(c *gin.Context) {
	lang := c.GetString("lang")
	user, err := model.GetUserById(currentUserId(c))
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	common.RespSuccess(c, user)
}

type UpdateSelfRequest struct {
	DisplayName string `json:"display_name" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Bio         string `json:"bio" binding:"max=1000"`
	Password    string `json:"password" binding:"omitempty,min=8,max=64"`
}

func UpdateSelf(c *gin.Context) {
	lang := c.GetString("lang")
	var req UpdateSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang)+": "+err.Error())
		return
	}
	user, err := model.GetUserById(currentUserId(c))
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	user.DisplayName = req.DisplayName
	user.Email = req.Email
	user.Bio = req.Bio
	if req.Password != "" {
		hashed, err := common.Password2Hash(req.Password)
		if err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrInternalServer, lang), err)
			return
		}
		user.Password = hashed
	}
	if err := user.Update(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, user)
}

// GenerateAccessToken rotates the personal API token.
func GenerateAccessToken(c *gin.Context) {
	lang := c.GetString("lang")
	user, err := model.GetUserById(currentUserId(c))
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	user.Token = common.GetUUID()
	if err := user.Update(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, user.Token)
}

// GetProfile is the public artist page: profile fields plus published
// projects and follower stats.
func GetProfile(c *gin.Context) {
	lang := c.GetString("lang")
	user, err := model.GetUserByUsername(c.Param("username"))
	if err != nil || user.Status != common.UserStatusEnabled {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}

	var projects []model.Project
	model.DB.Preload("Images").
		Where("owner_id = ? AND is_published = ?", user.Id, true).
		Order("created_at DESC").Find(&projects)
	for i := range projects {
		projects[i].LikeCount = model.CountLikes(projects[i].Id)
	}

	viewerId := currentUserId(c)
	common.RespSuccess(c, gin.H{
		"user":      user,
		"projects":  projects,
		"followers": model.CountFollowers(user.Id),
		"following": viewerId != 0 && model.IsFollowing(viewerId, user.Id),
	})
}

func ToggleFollow(c *gin.Context) {
	lang := c.GetString("lang")
	targetId, ok := pathId(c, "id")
	if !ok {
		return
	}
	userId := currentUserId(c)
	if targetId == userId {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrFollowSelf, lang))
		return
	}
	if _, err := model.GetUserById(targetId); err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	following, err := model.ToggleFollow(userId, targetId)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, gin.H{
		"following": following,
		"followers": model.CountFollowers(targetId),
	})
}

type LocationRequest struct {
	Latitude  float64  `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64  `json:"longitude" binding:"required,gte=-180,lte=180"`
	AccuracyM *float64 `json:"accuracy_m" binding:"omitempty,gte=0"`
}

// ReportLocation stores a self-reported device position for the admin
// map.
func ReportLocation(c *gin.Context) {
	lang := c.GetString("lang")
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	location := model.DeviceLocation{
		UserId:    currentUserId(c),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AccuracyM: req.AccuracyM,
		Ip:        c.ClientIP(),
		UserAgent: common.Truncate(c.Request.UserAgent(), 256),
	}
	if err := model.DB.Create(&location).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "location recorded")
}

// GetDashboard is the owner home screen: storage usage against quota
// plus project and social counters.
func GetDashboard(c *gin.Context) {
	userId := currentUserId(c)
	used := service.UsageBytes(userId)
	quotaMB := service.ResolveQuotaMB(userId)

	var quotaBytes int64
	var percent float64
	if quotaMB > 0 {
		quotaBytes = int64(quotaMB) * 1024 * 1024
		percent = float64(used) / float64(quotaBytes) * 100
		if percent > 100 {
			percent = 100
		}
	}

	var projectCount, publishedCount int64
	model.DB.Model(&model.Project{}).Where("owner_id = ?", userId).Count(&projectCount)
	model.DB.Model(&model.Project{}).Where("owner_id = ? AND is_published = ?", userId, true).Count(&publishedCount)
	var mockupCount int64
	model.DB.Model(&model.PackageMockup{}).Where("owner_id = ?", userId).Count(&mockupCount)
	var unread int64
	model.DB.Model(&model.Message{}).Where("recipient_id = ? AND is_read = ?", userId, false).Count(&unread)

	common.RespSuccess(c, gin.H{
		"storage": gin.H{
			"used_bytes":   used,
			"quota_mb":     quotaMB,
			"quota_bytes":  quotaBytes,
			"used_percent": percent,
			"unlimited":    quotaMB <= 0,
		},
		"projects":        projectCount,
		"published":       publishedCount,
		"mockups":         mockupCount,
		"followers":       model.CountFollowers(userId),
		"unread_messages": unread,
	})
}
