package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Hosting says where card details are captured.
type Hosting string

const (
	// HostingMerchant gateways take card details on our own checkout form.
	HostingMerchant Hosting = "merchant"
	// HostingGateway gateways redirect the payer to a page they host.
	HostingGateway Hosting = "gateway"
)

// FieldKind tells the UI how to render a field.
type FieldKind string

const (
	FieldText       FieldKind = "text"
	FieldCreditCard FieldKind = "credit_card"
)

// FormField describes one input on the checkout form.
type FormField struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Kind      FieldKind `json:"kind"`
	MaxLength int       `json:"max_length,omitempty"`
}

// FormRequirement is a validation rule for a submitted field, expressed as
// a validator tag (e.g. "required,numeric,len=4").
type FormRequirement struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Form views a payment through the fields its gateway needs.
type Form interface {
	Hosting() Hosting
	FormFields() []FormField
	FormRequirements() []FormRequirement
}

// MerchantHosted is a payment whose card details are collected locally.
type MerchantHosted struct {
	*Payment
	CVNMode bool
}

func NewMerchantHosted(p *Payment, cvnMode bool) *MerchantHosted {
	return &MerchantHosted{Payment: p, CVNMode: cvnMode}
}

func (m *MerchantHosted) Hosting() Hosting {
	return HostingMerchant
}

func (m *MerchantHosted) CreditCardFields() []FormField {
	fields := []FormField{
		{Name: "CardHolderName", Title: "Credit Card Holder Name :", Kind: FieldText},
		{Name: "CardNumber", Title: "Credit Card Number :", Kind: FieldCreditCard},
		{Name: "DateExpiry", Title: "Credit Card Expiry : (MMYY)", Kind: FieldText, MaxLength: 4},
	}
	if m.CVNMode {
		fields = append(fields, FormField{Name: "Cvc2", Title: "Credit Card CVN : (3 or 4 digits)", Kind: FieldText, MaxLength: 4})
	}
	return fields
}

// FormFields returns the business fields followed by the credit card fields.
func (m *MerchantHosted) FormFields() []FormField {
	return append(m.Payment.FormFields(), m.CreditCardFields()...)
}

func (m *MerchantHosted) FormRequirements() []FormRequirement {
	reqs := append(m.Payment.FormRequirements(),
		FormRequirement{Field: "CardHolderName", Rule: "required"},
		FormRequirement{Field: "CardNumber", Rule: "required,numeric,min=12,max=19"},
		FormRequirement{Field: "DateExpiry", Rule: "required,numeric,len=4"},
	)
	if m.CVNMode {
		reqs = append(reqs, FormRequirement{Field: "Cvc2", Rule: "required,numeric,min=3,max=4"})
	}
	return reqs
}

// GatewayHosted is a payment completed on the gateway's own pages.
type GatewayHosted struct {
	*Payment
}

func NewGatewayHosted(p *Payment) *GatewayHosted {
	return &GatewayHosted{Payment: p}
}

func (g *GatewayHosted) Hosting() Hosting {
	return HostingGateway
}

// FieldError reports one submitted field that broke its requirement.
type FieldError struct {
	Field string
	Rule  string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s fails %q", e.Field, e.Rule)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var ErrInvalidForm = errors.New("invalid payment form")

var formValidator = validator.New()

// ValidateForm checks data against every requirement. The returned error
// wraps ErrInvalidForm and one *FieldError per failing field.
func ValidateForm(reqs []FormRequirement, data map[string]string) error {
	var errs []error
	for _, req := range reqs {
		if err := formValidator.Var(data[req.Field], req.Rule); err != nil {
			errs = append(errs, &FieldError{Field: req.Field, Rule: req.Rule, Err: err})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidForm}, errs...)...)
}
