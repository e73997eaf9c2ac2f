package handler

import (
	"artfolio/backend/common"
	"artfolio/backend/model"

	"github.com/gin-gonic/gin"
)

func GetStatus(c *gin.Context) {
	common.RespSuccess(c, gin.H{
		"version":          common.Version,
		"start_time":       common.StartTime,
		"register_enabled": model.GetBoolOption(common.OptionRegisterEnabled),
		"users":            model.CountTable(&model.User{}),
		"projects":         model.CountTable(&model.Project{}),
	})
}

func GetNotice(c *gin.Context) {
	common.RespSuccess(c, model.GetOption(common.OptionNotice))
}
