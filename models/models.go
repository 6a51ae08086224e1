package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest represents a request to start a payment attempt
type PaymentRequest struct {
	Gateway      string            `json:"gateway" binding:"required"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency" binding:"omitempty,len=3"`
	PaidFor      EntityRef         `json:"paid_for"`
	PaidObjectID int64             `json:"paid_object_id"`
	PaidByID     int64             `json:"paid_by_id"`
	PaymentDate  string            `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Form         map[string]string `json:"form"`

	// Filled from the connection, never from the body
	IP      string `json:"-"`
	ProxyIP string `json:"-"`
}

// PaymentResponse represents the state of a payment after an attempt
type PaymentResponse struct {
	PaymentID   uint   `json:"payment_id"`
	Gateway     string `json:"gateway"`
	Status      Status `json:"status"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Message     string `json:"message,omitempty"`
	ProcessedAt string `json:"processed_at"`
}

// NewPaymentResponse builds the response for a processed payment
func NewPaymentResponse(p *Payment, gateway string) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:   p.ID,
		Gateway:     gateway,
		Status:      p.Status,
		Amount:      p.Amount.Amount.StringFixed(2),
		Currency:    p.Amount.Currency,
		Message:     p.Message,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// FormResponse describes the checkout form for a gateway
type FormResponse struct {
	Gateway      string            `json:"gateway"`
	Hosting      Hosting           `json:"hosting"`
	Fields       []FormField       `json:"fields"`
	Requirements []FormRequirement `json:"requirements"`
}
