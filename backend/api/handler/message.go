package handler

import (
	"net/http"
	"strings"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"

	"github.com/gin-gonic/gin"
)

const conversationLimit = 200

func GetConversation(c *gin.Context) {
	lang := c.GetString("lang")
	peerId, ok := pathId(c, "userId")
	if !ok {
		return
	}
	if _, err := model.GetUserById(peerId); err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	messages, err := model.GetConversation(currentUserId(c), peerId, conversationLimit)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, messages)
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

func SendMessage(c *gin.Context) {
	lang := c.GetString("lang")
	peerId, ok := pathId(c, "userId")
	if !ok {
		return
	}
	userId := currentUserId(c)
	if peerId == userId {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrMessageSelf, lang))
		return
	}
	peer, err := model.GetUserById(peerId)
	if err != nil || peer.Status != common.UserStatusEnabled {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(codes.ErrUserNotFound, lang))
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(codes.ErrInvalidParam, lang))
		return
	}
	message := model.Message{
		SenderId:    userId,
		RecipientId: peerId,
		Body:        strings.TrimSpace(req.Body),
	}
	if err := model.DB.Create(&message).Error; err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(codes.ErrDatabaseFailure, lang), err)
		return
	}
	common.RespSuccess(c, message)
}
