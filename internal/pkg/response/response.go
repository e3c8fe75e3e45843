package response

import "github.com/gin-gonic/gin"

// Detail writes the error shape every endpoint shares: {"detail": message}.
func Detail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"detail": message,
	})
}
