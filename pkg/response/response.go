package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func Fail(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message, "data": data})
}

func FailWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
