package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Lang stores the request language in the gin context for error
// translation. Defaults to English.
func Lang() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		} else {
			lang = strings.Split(lang, ",")[0]
		}
		c.Set("lang", lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	return c.GetString("lang")
}
