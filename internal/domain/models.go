package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                uuid.UUID
	CreatedAt         time.Time
	Name              string
	Login             string
	Email             string
	EncryptedPassword string
}

type Check struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	CreatorID      uuid.UUID
	PaymentMethod  PaymentMethodType
	PaidAmount     decimal.Decimal
	TotalAmount    decimal.Decimal
	Change         decimal.Decimal
	AdditionalInfo string
	TextRepr       string

	// Creator заполняется репозиторием при выборке чека вместе с создателем.
	Creator *User
	// Items упорядочены в порядке добавления позиций в чек.
	Items []Item
}

type Item struct {
	ID        int64
	CreatedAt time.Time
	CheckID   uuid.UUID
	Title     string
	Price     decimal.Decimal
	Quantity  int32
	Amount    decimal.Decimal
}

// ItemAmount вычисляет сумму позиции чека: price * quantity с округлением до 2 знаков.
// Половина округляется от нуля (round half up): 1.005 -> 1.01, а не 1.00 как при
// банковском округлении. Единственное правило округления в системе.
func ItemAmount(price decimal.Decimal, quantity int32) decimal.Decimal {
	return price.Mul(decimal.NewFromInt32(quantity)).Round(2)
}
