package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/receipts/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup     = "/api"
	RegisterRoute  = "/user/register"
	LoginRoute     = "/user/login"
	ProfileRoute   = "/user/profile"
	ChecksRoute    = "/checks"
	CheckRoute     = "/checks/:id"
	CheckTextRoute = "/checks/:id/text"
	HealthRoute    = "/health"
)

type RouterArgs struct {
	Logger       *logrus.Logger
	UserService  UserServicer
	CheckService CheckServicer
	JWTSecretKey []byte
	// AdminEnabled включает фейковую админ-панель: она поднимается только в dev
	// окружении, настоящей админской роли в системе нет.
	AdminEnabled bool
	AdminToken   string
}

func New(args RouterArgs) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	usersHandler := NewUsersHandler(args.UserService, args.CheckService)
	checksHandler := NewChecksHandler(args.CheckService)

	r.GET(HealthRoute, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, authHandler.Register)
	api.POST(LoginRoute, authHandler.Login)

	// Текст чека отдается без авторизации: ссылка на него публичная, чек можно
	// показать кому угодно. Асимметрия с остальными /checks роутами намеренная.
	api.GET(CheckTextRoute, checksHandler.Text)

	if args.AdminEnabled {
		adminHandler := NewAdminHandler(args.UserService, args.CheckService)
		admin := api.Group("/admin", middlewares.AdminTokenRequired(args.AdminToken))
		admin.GET("/users", adminHandler.Users)
		admin.GET("/users/:id", adminHandler.User)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.PUT("/users/:id/password", adminHandler.ResetUserPassword)
		admin.DELETE("/checks/:id", adminHandler.DeleteCheck)
	}

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, usersHandler.Profile)
	api.POST(ChecksRoute, checksHandler.Create)
	api.GET(ChecksRoute, checksHandler.Index)
	api.GET(CheckRoute, checksHandler.Show)

	return r
}
