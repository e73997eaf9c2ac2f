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

func GetOptions(c *gin.Context) {
	common.RespSuccess(c, model.AllOptions())
}

type OptionRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

var knownOptions = map[string]bool{
	common.OptionStorageQuotaMB:  true,
	common.OptionRegisterEnabled: true,
	common.OptionNotice:          true,
}

// UpdateOption changes one runtime option. StorageQuotaMB must be an
// integer; zero or negative disables the global quota.
func UpdateOption(c *gin.Context) {
	lang := c.GetString("lang")
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	if !knownOptions[req.Key] {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrOptionUnknown, lang))
		return
	}
	switch req.Key {
	case common.OptionStorageQuotaMB:
		if _, err := strconv.Atoi(req.Value); err != nil {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrOptionBadValue, lang))
			return
		}
	case common.OptionRegisterEnabled:
		if req.Value != "true" && req.Value != "false" {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrOptionBadValue, lang))
			return
		}
	}
	if err := model.UpdateOption(req.Key, req.Value); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccessStr(c, "option updated")
}
