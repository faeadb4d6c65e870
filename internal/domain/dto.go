package domain

type PaymentMethodType string

const (
	PaymentMethodCash       PaymentMethodType = "CASH"
	PaymentMethodCreditCard PaymentMethodType = "CREDIT_CARD"
)

// Valid сообщает, является ли значение одним из поддерживаемых способов оплаты.
func (p PaymentMethodType) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCreditCard:
		return true
	}
	return false
}
