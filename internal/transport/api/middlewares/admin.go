package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminTokenHeader = "X-Admin-Token" //nolint:gosec

// AdminTokenRequired сверяет статический токен из заголовка AdminTokenHeader.
// Это не полноценная авторизация: настоящей админской роли в системе нет,
// панель поднимается только в dev окружении для ручного тестирования.
func AdminTokenRequired(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AdminTokenHeader)
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}
