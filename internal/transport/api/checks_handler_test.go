package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/logger"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service"
	"github.com/fsdevblog/receipts/internal/service/tokens"
	"github.com/fsdevblog/receipts/internal/transport/api/mocks"
	"github.com/fsdevblog/receipts/internal/transport/api/testutils"
)

type ChecksHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCheckService *mocks.MockCheckServicer
	jwtSecret        []byte
	currentUserID    uuid.UUID
	userJWTToken     string
}

func TestChecksHandlerSuite(t *testing.T) {
	suite.Run(t, new(ChecksHandlerTestSuite))
}

func (s *ChecksHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockCheckService = mocks.NewMockCheckServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")
	s.currentUserID = uuid.New()

	jwtToken, jwtErr := tokens.GenerateUserJWT(s.currentUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)
	s.userJWTToken = jwtToken

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		CheckService: s.mockCheckService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *ChecksHandlerTestSuite) authHeader() func(*testutils.RequestOptions) {
	return testutils.WithHeader("Authorization", "Bearer "+s.userJWTToken)
}

func (s *ChecksHandlerTestSuite) savedCheck() domain.Check {
	checkID := uuid.New()
	return domain.Check{
		ID:            checkID,
		CreatedAt:     time.Date(2025, 2, 19, 16, 9, 0, 0, time.UTC),
		CreatorID:     s.currentUserID,
		PaymentMethod: domain.PaymentMethodCash,
		PaidAmount:    decimal.RequireFromString("499.50"),
		TotalAmount:   decimal.RequireFromString("405.20"),
		Change:        decimal.RequireFromString("94.30"),
		Items: []domain.Item{{
			ID:       1,
			CheckID:  checkID,
			Title:    "Tomato",
			Price:    decimal.RequireFromString("40.52"),
			Quantity: 10,
			Amount:   decimal.RequireFromString("405.20"),
		}},
	}
}

func (s *ChecksHandlerTestSuite) TestCreate() {
	createdCheck := s.savedCheck()

	s.mockCheckService.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(service.CreateCheckArgs{})).
		DoAndReturn(func(_ any, args service.CreateCheckArgs) (*domain.Check, error) {
			s.Equal(s.currentUserID, args.CreatorID)
			s.Equal(domain.PaymentMethodCash, args.PaymentMethod)
			s.Require().Len(args.Items, 1)
			s.Equal("Tomato", args.Items[0].Title)
			s.Equal(int32(10), args.Items[0].Quantity)
			return &createdCheck, nil
		})

	validPayload := map[string]any{
		"payment": map[string]any{"method": "CASH", "amount": "499.50"},
		"items": []map[string]any{
			{"title": "Tomato", "price": "40.52", "quantity": 10},
		},
	}
	negativePricePayload := map[string]any{
		"payment": map[string]any{"method": "CASH", "amount": "10.00"},
		"items": []map[string]any{
			{"title": "Tomato", "price": "-1.00", "quantity": 1},
		},
	}
	subCentPricePayload := map[string]any{
		"payment": map[string]any{"method": "CASH", "amount": "10.00"},
		"items": []map[string]any{
			{"title": "Tomato", "price": "1.005", "quantity": 1},
		},
	}
	badMethodPayload := map[string]any{
		"payment": map[string]any{"method": "BARTER", "amount": "10.00"},
		"items":   []map[string]any{},
	}

	cases := []struct {
		name       string
		payload    map[string]any
		authorized bool
		wantStatus int
	}{
		{name: "all ok", payload: validPayload, authorized: true, wantStatus: http.StatusCreated},
		{name: "not authorized", payload: validPayload, wantStatus: http.StatusUnauthorized},
		{name: "negative price", payload: negativePricePayload, authorized: true, wantStatus: http.StatusUnprocessableEntity},
		{name: "sub-cent price", payload: subCentPricePayload, authorized: true, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown payment method", payload: badMethodPayload, authorized: true, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			body, marshalErr := json.Marshal(t.payload)
			s.Require().NoError(marshalErr)

			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.authorized {
				reqOpts = append(reqOpts, s.authHeader())
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + ChecksRoute,
				Body:   bytes.NewReader(body),
			}, reqOpts...)
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusCreated {
				wantLink := fmt.Sprintf("http://example.com%s/checks/%s/text", RouteGroup, createdCheck.ID)
				s.Equal(wantLink, res.Header.Get(CheckTextLinkHeader))

				var response CheckResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal(createdCheck.ID, response.ID)
				// Деньги через границу ходят десятичными строками с двумя знаками.
				s.Equal("405.20", response.TotalAmount)
				s.Equal("94.30", response.Change)
				s.Equal("499.50", response.Payment.Amount)
				s.Require().Len(response.Items, 1)
				s.Equal("40.52", response.Items[0].Price)
				s.Equal("405.20", response.Items[0].Amount)
			}
		})
	}
}

func (s *ChecksHandlerTestSuite) TestIndex() {
	savedCheck := s.savedCheck()

	s.mockCheckService.EXPECT().
		GetPageByCreator(gomock.Any(), s.currentUserID, gomock.Any(), repoargs.Pagination{Page: 2, Limit: 10}).
		DoAndReturn(func(_ any, _ uuid.UUID, filters repoargs.CheckFilters, _ repoargs.Pagination) (*repoargs.Page[domain.Check], error) {
			s.Require().NotNil(filters.PeriodStart)
			s.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), filters.PeriodStart.UTC())
			s.Require().NotNil(filters.TotalAmountGE)
			s.True(filters.TotalAmountGE.Equal(decimal.RequireFromString("100")))
			s.Require().NotNil(filters.PaymentMethod)
			s.Equal(domain.PaymentMethodCash, *filters.PaymentMethod)

			return &repoargs.Page[domain.Check]{
				Items: []domain.Check{savedCheck},
				Total: 21,
				Page:  2,
				Limit: 10,
			}, nil
		})

	query := "?page=2&limit=10&period_start=2025-02-01&total_amount_ge=100&payment_method=CASH"
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ChecksRoute + query,
	}, s.authHeader())
	s.Require().NoError(err)

	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Require().Equal(http.StatusOK, res.StatusCode)

	var response CheckPageResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
	s.Equal(int64(21), response.Total)
	s.Equal(uint(2), response.Page)
	s.Require().Len(response.Items, 1)
	s.Equal(savedCheck.ID, response.Items[0].ID)
}

func (s *ChecksHandlerTestSuite) TestIndexBadFilter() {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ChecksRoute + "?total_amount_ge=notanumber",
	}, s.authHeader())
	s.Require().NoError(err)

	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
}

func (s *ChecksHandlerTestSuite) TestShow() {
	savedCheck := s.savedCheck()
	missingID := uuid.New()

	s.mockCheckService.EXPECT().
		FindForCreator(gomock.Any(), savedCheck.ID, s.currentUserID).
		Return(&savedCheck, nil)
	// Чужой или несуществующий чек - один и тот же 404.
	s.mockCheckService.EXPECT().
		FindForCreator(gomock.Any(), missingID, s.currentUserID).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{name: "all ok", id: savedCheck.ID.String(), wantStatus: http.StatusOK},
		{name: "not found", id: missingID.String(), wantStatus: http.StatusNotFound},
		{name: "malformed id", id: "not-a-uuid", wantStatus: http.StatusNotFound},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + "/checks/" + t.id,
			}, s.authHeader())
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.NotEmpty(res.Header.Get(CheckTextLinkHeader))
			}
		})
	}
}

func (s *ChecksHandlerTestSuite) TestText() {
	checkID := uuid.New()
	missingID := uuid.New()
	receiptText := "Tomato Sellers LLC\n" + strings.Repeat("=", 40)

	s.mockCheckService.EXPECT().Text(gomock.Any(), checkID).Return(receiptText, nil)
	s.mockCheckService.EXPECT().Text(gomock.Any(), missingID).Return("", domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		id         string
		wantStatus int
		wantBody   string
	}{
		// Авторизация не нужна: ссылка на текст чека публичная.
		{
			name:       "no auth required",
			id:         checkID.String(),
			wantStatus: http.StatusOK,
			wantBody:   "<pre>" + receiptText + "</pre>",
		},
		{name: "not found", id: missingID.String(), wantStatus: http.StatusNotFound},
		{name: "malformed id", id: "42", wantStatus: http.StatusNotFound},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + "/checks/" + t.id + "/text",
			})
			s.Require().NoError(err)

			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantBody != "" {
				s.Equal("text/html; charset=utf-8", res.Header.Get("Content-Type"))

				body, readErr := io.ReadAll(res.Body)
				s.Require().NoError(readErr)
				s.Equal(t.wantBody, string(body))
			}
		})
	}
}
