package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fsdevblog/receipts/internal/transport/api/middlewares"
)

// CheckTextLinkHeader - заголовок с абсолютной ссылкой на текстовое
// представление чека. Выставляется в ответах создания и чтения чека.
const CheckTextLinkHeader = "X-Check-Text-Link"

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка
// утверждения типа - вернется uuid.Nil.
func getUserIDFromContext(c *gin.Context) uuid.UUID {
	value, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return uuid.Nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// parseIDParam разбирает path-параметр :id. При невалидном UUID пишет в ответ
// 404 (несуществующий id неотличим от ненайденной записи) и возвращает false.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// checkTextLink собирает абсолютный URL текстового представления чека
// относительно хоста текущего запроса.
func checkTextLink(c *gin.Context, id uuid.UUID) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	path := strings.Replace(CheckTextRoute, ":id", id.String(), 1)
	return fmt.Sprintf("%s://%s%s%s", scheme, c.Request.Host, RouteGroup, path)
}
