package api

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/logger"
	"github.com/fsdevblog/receipts/internal/service/tokens"
	"github.com/fsdevblog/receipts/internal/transport/api/mocks"
	"github.com/fsdevblog/receipts/internal/transport/api/testutils"
)

type UsersHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockUserService  *mocks.MockUserServicer
	mockCheckService *mocks.MockCheckServicer
	jwtSecret        []byte
}

func TestUsersHandlerSuite(t *testing.T) {
	suite.Run(t, new(UsersHandlerTestSuite))
}

func (s *UsersHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.mockCheckService = mocks.NewMockCheckServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		UserService:  s.mockUserService,
		CheckService: s.mockCheckService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *UsersHandlerTestSuite) TestProfile() {
	currentUser := domain.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      "Tomato Sellers LLC",
		Login:     "tomatoes",
		Email:     "owner@tomatoes.example",
	}

	jwtToken, jwtErr := tokens.GenerateUserJWT(currentUser.ID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	checks := []domain.Check{{
		ID:            uuid.New(),
		CreatedAt:     time.Now(),
		CreatorID:     currentUser.ID,
		PaymentMethod: domain.PaymentMethodCreditCard,
		PaidAmount:    decimal.RequireFromString("50.00"),
		TotalAmount:   decimal.RequireFromString("40.85"),
		Change:        decimal.RequireFromString("9.15"),
	}}

	s.mockUserService.EXPECT().FindByID(gomock.Any(), currentUser.ID).Return(&currentUser, nil)
	s.mockCheckService.EXPECT().GetAllByCreator(gomock.Any(), currentUser.ID).Return(checks, nil)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", jwtToken: jwtToken, wantStatus: http.StatusOK},
		{name: "not authorized", wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", "Bearer "+t.jwtToken))
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + ProfileRoute,
			}, reqOpts...)
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var response UserWithChecksResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal(currentUser.ID, response.ID)
				s.Require().Len(response.Checks, 1)
				s.Equal("40.85", response.Checks[0].TotalAmount)
				s.Equal(domain.PaymentMethodCreditCard, response.Checks[0].Payment.Method)
			}
		})
	}
}
