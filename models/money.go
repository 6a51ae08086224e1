package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount paired with an ISO 4217 currency code.
type Money struct {
	Amount   decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0" json:"amount"`
	Currency string          `gorm:"type:varchar(3)" json:"currency"`
}

// NewMoney returns amount in the given currency. An empty currency falls
// back to the site currency.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currencyOrSite(currency)}
}

func (m Money) String() string {
	return strings.TrimSpace(m.Amount.StringFixed(2) + " " + m.Currency)
}

func currencyOrSite(code string) string {
	if code == "" {
		return SiteCurrency()
	}
	return code
}
