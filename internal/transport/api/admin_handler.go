package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
)

// AdminHandler обслуживает фейковую админ-панель. Панель существует только для
// ручного тестирования в dev окружении и защищена статическим токеном, а не
// полноценной ролевой моделью.
type AdminHandler struct {
	userService  UserServicer
	checkService CheckServicer
}

func NewAdminHandler(userService UserServicer, checkService CheckServicer) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		checkService: checkService,
	}
}

type UserPageResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  uint           `json:"page"`
	Limit uint           `json:"limit"`
}

type AdminPageParams struct {
	Page  uint `form:"page"`
	Limit uint `form:"limit"`
}

// Users GET RouteGroup + /admin/users. Страница всех юзеров.
func (h *AdminHandler) Users(c *gin.Context) {
	var params AdminPageParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	page, err := h.userService.GetAll(ctx, repoargs.Pagination{Page: params.Page, Limit: params.Limit})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := UserPageResponse{
		Items: make([]UserResponse, len(page.Items)),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}
	for i := range page.Items {
		response.Items[i] = newUserResponse(&page.Items[i])
	}
	c.JSON(http.StatusOK, response)
}

// User GET RouteGroup + /admin/users/:id.
func (h *AdminHandler) User(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser DELETE RouteGroup + /admin/users/:id. Удаляет юзера вместе с его чеками.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("user %s has been deleted", id)})
}

type ResetUserPasswordParams struct {
	NewPassword string `binding:"required,min=8,max=512" json:"new_password"`
}

// ResetUserPassword PUT RouteGroup + /admin/users/:id/password.
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var params ResetUserPasswordParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.ResetPassword(ctx, id, params.NewPassword); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCheck DELETE RouteGroup + /admin/checks/:id. Удаляет чек вместе с позициями.
func (h *AdminHandler) DeleteCheck(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.checkService.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "check not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("check %s has been deleted", id)})
}
