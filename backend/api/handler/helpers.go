package handler

import (
	"net/http"
	"strconv"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"

	"github.com/gin-gonic/gin"
)

func currentUserId(c *gin.Context) int {
	id, ok := c.Get("id")
	if !ok {
		return 0
	}
	v, _ := id.(int)
	return v
}

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		lang := c.GetString("lang")
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return 0, false
	}
	return id, true
}

// respondServiceError maps error codes coming out of the service layer
// to HTTP statuses and localized messages.
func respondServiceError(c *gin.Context, err error) {
	lang := c.GetString("lang")
	code := i18n.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case codes.ErrQuotaExceeded:
		status = http.StatusRequestEntityTooLarge
	case codes.ErrFileTooLarge:
		status = http.StatusRequestEntityTooLarge
	case codes.ErrBadExtension, codes.ErrInvalidParam:
		status = http.StatusBadRequest
	case codes.ErrNotFound, codes.ErrProjectMissing, codes.ErrMockupMissing:
		status = http.StatusNotFound
	case codes.ErrForbidden, codes.ErrPermissionDenied:
		status = http.StatusForbidden
	case "":
		common.RespError(c, status, i18n.Translate(codes.ErrInternalServer, lang), err)
		return
	}
	common.RespErrorStr(c, status, i18n.Translate(code, lang))
}

// loadOwnedProject fetches the project in the path and enforces that
// the caller owns it or is an admin.
func loadOwnedProject(c *gin.Context) (*model.Project, bool) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return nil, false
	}
	project, err := model.GetProjectById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrProjectMissing, lang))
		return nil, false
	}
	if project.OwnerId != currentUserId(c) && c.GetInt("role") < common.RoleAdminUser {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(codes.ErrPermissionDenied, lang))
		return nil, false
	}
	return project, true
}

func loadOwnedMockup(c *gin.Context) (*model.PackageMockup, bool) {
	lang := c.GetString("lang")
	id, ok := pathId(c, "id")
	if !ok {
		return nil, false
	}
	mockup, err := model.GetMockupById(id)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrMockupMissing, lang))
		return nil, false
	}
	if mockup.OwnerId != currentUserId(c) && c.GetInt("role") < common.RoleAdminUser {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(codes.ErrPermissionDenied, lang))
		return nil, false
	}
	return mockup, true
}
