package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/receipts/internal/domain"
	"github.com/fsdevblog/receipts/internal/repository/repoargs"
	"github.com/fsdevblog/receipts/internal/service"
)

type ChecksHandler struct {
	checkSvs CheckServicer
}

func NewChecksHandler(checkSvs CheckServicer) *ChecksHandler {
	return &ChecksHandler{
		checkSvs: checkSvs,
	}
}

type PaymentParams struct {
	Method domain.PaymentMethodType `binding:"required,oneof=CASH CREDIT_CARD" json:"method"`
	Amount decimal.Decimal          `binding:"required,gt=0"                   json:"amount"`
}

type CheckItemParams struct {
	// Пустое название допустимо: в текстовом представлении такая позиция
	// занимает одну пустую строку с суммой справа.
	Title    string          `binding:"max=512"         json:"title"`
	Price    decimal.Decimal `binding:"required,gt=0"   json:"price"`
	Quantity int32           `binding:"required,gt=0"   json:"quantity"`
}

type CreateCheckParams struct {
	Payment        PaymentParams     `binding:"required"          json:"payment"`
	AdditionalInfo string            `binding:"omitempty,max=512" json:"additional_info"`
	Items          []CheckItemParams `binding:"dive"              json:"items"`
}

type ItemResponse struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int32  `json:"quantity"`
	Amount   string `json:"amount"`
}

type PaymentResponse struct {
	Method domain.PaymentMethodType `json:"method"`
	Amount string                   `json:"amount"`
}

type CheckResponse struct {
	ID             uuid.UUID       `json:"id"`
	Items          []ItemResponse  `json:"items"`
	Payment        PaymentResponse `json:"payment"`
	TotalAmount    string          `json:"total_amount"`
	Change         string          `json:"change"`
	AdditionalInfo string          `json:"additional_info,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CheckPageResponse struct {
	Items []CheckResponse `json:"items"`
	Total int64           `json:"total"`
	Page  uint            `json:"page"`
	Limit uint            `json:"limit"`
}

// newCheckResponse собирает JSON представление чека. Денежные значения
// сериализуются десятичными строками ровно с двумя знаками после точки:
// float с его двоичным представлением через границу не ходит.
func newCheckResponse(check *domain.Check) CheckResponse {
	items := make([]ItemResponse, len(check.Items))
	for i, item := range check.Items {
		items[i] = ItemResponse{
			Title:    item.Title,
			Price:    item.Price.StringFixed(2),
			Quantity: item.Quantity,
			Amount:   item.Amount.StringFixed(2),
		}
	}
	return CheckResponse{
		ID:    check.ID,
		Items: items,
		Payment: PaymentResponse{
			Method: check.PaymentMethod,
			Amount: check.PaidAmount.StringFixed(2),
		},
		TotalAmount:    check.TotalAmount.StringFixed(2),
		Change:         check.Change.StringFixed(2),
		AdditionalInfo: check.AdditionalInfo,
		CreatedAt:      check.CreatedAt,
	}
}

// Create POST RouteGroup + ChecksRoute. Создает чек с позициями.
// Любая ошибка валидации отклоняет запрос до обращения к базе.
func (h *ChecksHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CreateCheckParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if validationErr := validateMoneyPrecision(&params); validationErr != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
		return
	}

	args := service.CreateCheckArgs{
		CreatorID:      currentUserID,
		PaymentMethod:  params.Payment.Method,
		PaidAmount:     params.Payment.Amount,
		AdditionalInfo: params.AdditionalInfo,
		Items:          make([]service.CreateCheckItem, len(params.Items)),
	}
	for i, item := range params.Items {
		args.Items[i] = service.CreateCheckItem{
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	check, createErr := h.checkSvs.Create(ctx, args)
	if createErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header(CheckTextLinkHeader, checkTextLink(c, check.ID))
	c.JSON(http.StatusCreated, newCheckResponse(check))
}

// validateMoneyPrecision добивает то, что не выражается тегами: денежные
// значения принимаются максимум с двумя знаками после точки.
func validateMoneyPrecision(params *CreateCheckParams) error {
	if params.Payment.Amount.Exponent() < -2 {
		return errors.New("payment amount must have at most 2 decimal places")
	}
	for _, item := range params.Items {
		if item.Price.Exponent() < -2 {
			return errors.New("item price must have at most 2 decimal places")
		}
	}
	return nil
}

type ChecksIndexParams struct {
	Page          uint       `form:"page"`
	Limit         uint       `form:"limit"`
	PeriodStart   *time.Time `form:"period_start"    time_format:"2006-01-02" time_utc:"1"`
	PeriodEnd     *time.Time `form:"period_end"      time_format:"2006-01-02" time_utc:"1"`
	TotalAmountGE string     `form:"total_amount_ge"`
	TotalAmountLE string     `form:"total_amount_le"`
	PaymentMethod string     `binding:"omitempty,oneof=CASH CREDIT_CARD" form:"payment_method"`
}

// Index GET RouteGroup + ChecksRoute. Страница чеков текущего юзера
// с фильтрами по периоду создания, сумме и способу оплаты.
func (h *ChecksHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params ChecksIndexParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	filters, filtersErr := buildFilters(params)
	if filtersErr != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": filtersErr.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	page, err := h.checkSvs.GetPageByCreator(ctx, currentUserID, filters, repoargs.Pagination{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := CheckPageResponse{
		Items: make([]CheckResponse, len(page.Items)),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}
	for i := range page.Items {
		response.Items[i] = newCheckResponse(&page.Items[i])
	}
	c.JSON(http.StatusOK, response)
}

func buildFilters(params ChecksIndexParams) (repoargs.CheckFilters, error) {
	filters := repoargs.CheckFilters{
		PeriodStart: params.PeriodStart,
		PeriodEnd:   params.PeriodEnd,
	}
	if params.TotalAmountGE != "" {
		value, err := decimal.NewFromString(params.TotalAmountGE)
		if err != nil {
			return filters, errors.New("total_amount_ge must be a decimal number")
		}
		filters.TotalAmountGE = &value
	}
	if params.TotalAmountLE != "" {
		value, err := decimal.NewFromString(params.TotalAmountLE)
		if err != nil {
			return filters, errors.New("total_amount_le must be a decimal number")
		}
		filters.TotalAmountLE = &value
	}
	if params.PaymentMethod != "" {
		method := domain.PaymentMethodType(params.PaymentMethod)
		filters.PaymentMethod = &method
	}
	return filters, nil
}

// Show GET RouteGroup + CheckRoute. Возвращает чек текущего юзера по ID.
// Чужие чеки неотличимы от несуществующих - 404 в обоих случаях.
func (h *ChecksHandler) Show(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	check, err := h.checkSvs.FindForCreator(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "check not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header(CheckTextLinkHeader, checkTextLink(c, check.ID))
	c.JSON(http.StatusOK, newCheckResponse(check))
}

// Text GET RouteGroup + CheckTextRoute. Текстовое представление чека,
// обернутое в <pre>. Авторизации нет - см. комментарий в router.go.
func (h *ChecksHandler) Text(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	text, err := h.checkSvs.Text(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "check not found"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<pre>"+text+"</pre>"))
}
