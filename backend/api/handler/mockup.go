package handler

import (
	"net/http"
	"strconv"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-gonic/gin"
)

func formFloat(c *gin.Context, field string, def float64) float64 {
	raw, ok := c.GetPostForm(field)
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// parseMockupForm reads placement fields with their schema defaults, or
// with the current values when updating.
func parseMockupForm(c *gin.Context, existing *model.PackageMockup) (service.MockupInput, service.MockupUploads) {
	input := service.MockupInput{
		Title:          c.PostForm("title"),
		DesignPosX:     50,
		DesignPosY:     50,
		DesignScale:    100,
		DesignRotation: 0,
		MaskOpacity:    100,
		MaskFeather:    0,
	}
	if existing != nil {
		input.Title = c.DefaultPostForm("title", existing.Title)
		input.DesignPosX = existing.DesignPosX
		input.DesignPosY = existing.DesignPosY
		input.DesignScale = existing.DesignScale
		input.DesignRotation = existing.DesignRotation
		input.MaskOpacity = existing.MaskOpacity
		input.MaskFeather = existing.MaskFeather
		input.MaskInvert = existing.MaskInvert
	}
	input.DesignPosX = formFloat(c, "design_pos_x", input.DesignPosX)
	input.DesignPosY = formFloat(c, "design_pos_y", input.DesignPosY)
	input.DesignScale = formFloat(c, "design_scale", input.DesignScale)
	input.DesignRotation = formFloat(c, "design_rotation", input.DesignRotation)
	input.MaskOpacity = formFloat(c, "mask_opacity", input.MaskOpacity)
	input.MaskFeather = formFloat(c, "mask_feather", input.MaskFeather)
	if raw, ok := c.GetPostForm("mask_invert"); ok {
		input.MaskInvert = raw == "true"
	}
	input.ClearMask = c.PostForm("clear_mask") == "true"

	uploads := service.MockupUploads{
		Container: formFileOrNil(c, "container"),
		Design:    formFileOrNil(c, "design"),
		Mask:      formFileOrNil(c, "mask"),
	}
	return input, uploads
}

func ListMockups(c *gin.Context) {
	lang := c.GetString("lang")
	mockups, err := model.GetMockupsByOwner(currentUserId(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, mockups)
}

func CreateMockup(c *gin.Context) {
	lang := c.GetString("lang")
	input, uploads := parseMockupForm(c, nil)
	if uploads.Container == nil || uploads.Design == nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	mockup, err := service.CreateMockup(currentUserId(c), input, uploads)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, mockup)
}

func GetMockup(c *gin.Context) {
	mockup, ok := loadOwnedMockup(c)
	if !ok {
		return
	}
	common.RespSuccess(c, mockup)
}

func UpdateMockup(c *gin.Context) {
	mockup, ok := loadOwnedMockup(c)
	if !ok {
		return
	}
	input, uploads := parseMockupForm(c, mockup)
	updated, err := service.UpdateMockup(mockup, input, uploads)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccess(c, updated)
}

func DeleteMockup(c *gin.Context) {
	mockup, ok := loadOwnedMockup(c)
	if !ok {
		return
	}
	if err := service.DeleteMockup(mockup); err != nil {
		respondServiceError(c, err)
		return
	}
	common.RespSuccessStr(c, "mockup deleted")
}
