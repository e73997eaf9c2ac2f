package middleware

import (
	"net/http"
	"strings"

	"artfolio/backend/common"
	"artfolio/backend/model"
	"artfolio/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func authHelper(c *gin.Context, minRole int) {
	session := sessions.Default(c)
	username := session.Get("username")
	role := session.Get("role")
	id := session.Get("id")
	status := session.Get("status")

	if username == nil {
		// No session; try Bearer JWT, then the personal access token.
		token := strings.TrimSpace(c.Request.Header.Get("Authorization"))
		if token == "" {
			common.RespErrorStr(c, http.StatusUnauthorized, "not logged in")
			c.Abort()
			return
		}
		if strings.HasPrefix(token, "Bearer ") {
			if claims, err := service.ValidateJWT(strings.TrimPrefix(token, "Bearer ")); err == nil {
				if user, err := model.GetUserById(claims.UserId); err == nil {
					username = user.Username
					role = user.Role
					id = user.Id
					status = user.Status
				}
			}
		}
		if username == nil {
			if user := model.ValidateUserToken(token); user != nil {
				username = user.Username
				role = user.Role
				id = user.Id
				status = user.Status
			}
		}
		if username == nil {
			common.RespErrorStr(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
	}

	if status.(int) == common.UserStatusDisabled {
		common.RespErrorStr(c, http.StatusForbidden, "this account has been disabled")
		c.Abort()
		return
	}
	if role.(int) < minRole {
		common.RespErrorStr(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
		return
	}

	c.Set("username", username)
	c.Set("role", role)
	c.Set("id", id)
	c.Next()
}

func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleCommonUser)
	}
}

func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleAdminUser)
	}
}

func RootAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleRootUser)
	}
}

// TryAuth resolves the user when credentials are present but never
// rejects. Public endpoints use it to vary output for logged-in users.
func TryAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if username := session.Get("username"); username != nil {
			c.Set("username", username)
			c.Set("role", session.Get("role"))
			c.Set("id", session.Get("id"))
		}
		c.Next()
	}
}
