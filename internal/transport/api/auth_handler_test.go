package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/logger"
	"github.com/fsdevblog/receipts/internal/service"
	"github.com/fsdevblog/receipts/internal/transport/api/mocks"
	"github.com/fsdevblog/receipts/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	createdUser := domain.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      "Tomato Sellers LLC",
		Login:     "tomatoes",
		Email:     "owner@tomatoes.example",
	}

	validArgs := service.RegisterUserArgs{
		Name:     createdUser.Name,
		Login:    createdUser.Login,
		Email:    createdUser.Email,
		Password: "password123",
	}
	duplicateArgs := validArgs
	duplicateArgs.Login = "duplicate"

	// Моки
	s.mockUserService.EXPECT().
		Register(gomock.Any(), validArgs).
		Return(&createdUser, "jwt-token", nil)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), duplicateArgs).
		Return(nil, "", domain.ErrDuplicateKey)

	cases := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantToken  bool
	}{
		{
			name: "all ok",
			payload: map[string]any{
				"name":     validArgs.Name,
				"login":    validArgs.Login,
				"email":    validArgs.Email,
				"password": validArgs.Password,
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		}, {
			name: "duplicate login",
			payload: map[string]any{
				"name":     duplicateArgs.Name,
				"login":    duplicateArgs.Login,
				"email":    duplicateArgs.Email,
				"password": duplicateArgs.Password,
			},
			wantStatus: http.StatusConflict,
		}, {
			name: "short password",
			payload: map[string]any{
				"name":     validArgs.Name,
				"login":    validArgs.Login,
				"email":    validArgs.Email,
				"password": "short",
			},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name: "invalid email",
			payload: map[string]any{
				"name":     validArgs.Name,
				"login":    validArgs.Login,
				"email":    "not an email",
				"password": validArgs.Password,
			},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "missing fields",
			payload:    map[string]any{"login": validArgs.Login},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantToken {
				s.Equal("Bearer jwt-token", res.Header.Get("Authorization"))

				var response UserResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal(createdUser.ID, response.ID)
				s.Equal(createdUser.Login, response.Login)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	savedUser := domain.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      "Tomato Sellers LLC",
		Login:     "tomatoes",
		Email:     "owner@tomatoes.example",
	}

	argsOk := service.LoginUserArgs{Login: savedUser.Login, Password: "password123"}
	argsUnknown := service.LoginUserArgs{Login: "stranger", Password: "password123"}
	argsWrongPass := service.LoginUserArgs{Login: savedUser.Login, Password: "wrongpassword"}

	s.mockUserService.EXPECT().Login(gomock.Any(), argsOk).Return(&savedUser, "jwt-token", nil)
	s.mockUserService.EXPECT().Login(gomock.Any(), argsUnknown).Return(nil, "", domain.ErrRecordNotFound)
	s.mockUserService.EXPECT().Login(gomock.Any(), argsWrongPass).Return(nil, "", domain.ErrPasswordMissMatch)

	cases := []struct {
		name       string
		args       service.LoginUserArgs
		wantStatus int
	}{
		{name: "all ok", args: argsOk, wantStatus: http.StatusOK},
		// Неизвестный логин и неверный пароль дают одинаковый ответ.
		{name: "unknown login", args: argsUnknown, wantStatus: http.StatusUnauthorized},
		{name: "wrong password", args: argsWrongPass, wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(map[string]string{
				"login":    t.args.Login,
				"password": t.args.Password,
			})
			s.Require().NoError(marshalErr)

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(body),
			}, testutils.WithHeader("Content-Type", "application/json"))
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer jwt-token", res.Header.Get("Authorization"))
			} else {
				s.Empty(res.Header.Get("Authorization"))
			}
		})
	}
}
