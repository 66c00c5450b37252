package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONItems wraps a collection the way the desk client expects it.
func JSONItems(c *gin.Context, code int, items interface{}) {
	JSONSuccess(c, code, gin.H{"items": items})
}

func JSONError(c *gin.Context, code int, kind, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"success": false,
		"error":   gin.H{"kind": kind, "message": message},
	})
}
