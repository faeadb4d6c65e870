package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	userService  UserServicer
	checkService CheckServicer
}

func NewUsersHandler(userService UserServicer, checkService CheckServicer) *UsersHandler {
	return &UsersHandler{
		userService:  userService,
		checkService: checkService,
	}
}

type UserWithChecksResponse struct {
	UserResponse
	Checks []CheckResponse `json:"checks"`
}

// Profile GET RouteGroup + ProfileRoute. Регистрационные данные текущего юзера
// вместе со всеми его чеками.
func (h *UsersHandler) Profile(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, userErr := h.userService.FindByID(ctx, currentUserID)
	if userErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, userErr).SetType(gin.ErrorTypePrivate)
		return
	}

	checks, checksErr := h.checkService.GetAllByCreator(ctx, currentUserID)
	if checksErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, checksErr).SetType(gin.ErrorTypePrivate)
		return
	}

	response := UserWithChecksResponse{
		UserResponse: newUserResponse(user),
		Checks:       make([]CheckResponse, len(checks)),
	}
	for i := range checks {
		response.Checks[i] = newCheckResponse(&checks[i])
	}
	c.JSON(http.StatusOK, response)
}
