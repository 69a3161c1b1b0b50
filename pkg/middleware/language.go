package middleware

import (
	constants "RescueHub/pkg/constant"

	"github.com/gin-gonic/gin"
)

// Language picks the response language from the query string or the
// Accept-Language header.
func Language(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		if lang == "" {
			lang = defaultLang
		}
		c.Set(constants.LangField, lang)
		c.Next()
	}
}
