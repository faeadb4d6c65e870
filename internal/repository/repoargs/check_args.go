package repoargs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/receipts/internal/domain"
)

type CreateCheck struct {
	CreatorID      uuid.UUID
	PaymentMethod  domain.PaymentMethodType
	PaidAmount     decimal.Decimal
	AdditionalInfo string
}

// AttachItem описывает одну позицию чека. Amount вычисляется сервисом
// (domain.ItemAmount) и никогда не приходит от клиента.
type AttachItem struct {
	CheckID  uuid.UUID
	Title    string
	Price    decimal.Decimal
	Quantity int32
	Amount   decimal.Decimal
}

// CheckFilters - необязательные фильтры выборки чеков. Nil-поле означает
// отсутствие фильтра.
type CheckFilters struct {
	// PeriodStart фильтрует по дате создания: created_at >= PeriodStart.
	PeriodStart *time.Time
	// PeriodEnd фильтрует по дате создания: created_at < PeriodEnd + 24h.
	// Верхняя граница включает весь день PeriodEnd целиком.
	PeriodEnd     *time.Time
	TotalAmountGE *decimal.Decimal
	TotalAmountLE *decimal.Decimal
	PaymentMethod *domain.PaymentMethodType
}
