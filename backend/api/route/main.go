package route

import (
	"artfolio/backend/common"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine) {
	SetApiRouter(route)
	// Uploaded media is served straight off the storage root.
	route.Use(static.Serve("/upload", static.LocalFile(common.UploadPath, false)))
}
