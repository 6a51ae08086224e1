package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// EntityRef is a weak reference to the entity being paid for: a type
// discriminator plus its numeric id.
type EntityRef struct {
	Class string `json:"class"`
	ID    int64  `json:"id"`
}

func (r EntityRef) IsZero() bool {
	return r.Class == "" && r.ID == 0
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s#%d", r.Class, r.ID)
}

// Payment is the persisted audit record of one payment attempt.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Status  Status `gorm:"type:varchar(10);not null;default:'Incomplete';index" json:"status"`
	Amount  Money  `gorm:"embedded;embeddedPrefix:amount_" json:"amount"`
	Message string `gorm:"type:text" json:"message"`
	IP      string `gorm:"column:ip;type:varchar(255)" json:"ip"`
	ProxyIP string `gorm:"column:proxy_ip;type:varchar(255)" json:"proxy_ip"`

	PaidForID    int64  `gorm:"index:idx_payments_paid_for" json:"paid_for_id"`
	PaidForClass string `gorm:"type:varchar(255);index:idx_payments_paid_for" json:"paid_for_class"`

	// Only set when the payment is one of a recurring series; used to find
	// the latest instance.
	PaymentDate *datatypes.Date `json:"payment_date,omitempty"`

	ExceptionError string `gorm:"type:text" json:"exception_error"`

	PaidObjectID int64 `gorm:"index" json:"paid_object_id"`
	PaidByID     int64 `gorm:"index" json:"paid_by_id"`

	formFields       []FormField
	formRequirements []FormRequirement
}

func (Payment) TableName() string {
	return "payments"
}

// NewPayment returns an Incomplete payment with no form fields.
func NewPayment() *Payment {
	return &Payment{
		Status:           StatusIncomplete,
		formFields:       []FormField{},
		formRequirements: []FormRequirement{},
	}
}

// PaidFor returns the paid-for reference.
func (p *Payment) PaidFor() EntityRef {
	return EntityRef{Class: p.PaidForClass, ID: p.PaidForID}
}

func (p *Payment) SetPaidFor(ref EntityRef) {
	p.PaidForClass = ref.Class
	p.PaidForID = ref.ID
}

// SetPaymentDate records the date of a recurring instance. Time of day is dropped.
func (p *Payment) SetPaymentDate(t time.Time) {
	y, m, d := t.Date()
	date := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	p.PaymentDate = &date
}

// ApplyResult moves the payment to the status matching a gateway result.
// A string or error payload becomes the message.
func (p *Payment) ApplyResult(res Result) {
	switch {
	case res.IsSuccess():
		p.Status = StatusSuccess
	case res.IsProcessing():
		p.Status = StatusPending
	default:
		p.Status = StatusFailure
	}

	switch v := res.Value().(type) {
	case string:
		p.Message = v
	case error:
		p.Message = v.Error()
	case fmt.Stringer:
		p.Message = v.String()
	}
}

// RecordException captures err on the record and marks it failed.
func (p *Payment) RecordException(err error) {
	if err == nil {
		return
	}
	p.ExceptionError = err.Error()
	p.Status = StatusFailure
}

// FormFields returns the fields to show on the checkout form.
func (p *Payment) FormFields() []FormField {
	return append([]FormField{}, p.formFields...)
}

// AddFormField appends a business field ahead of any gateway specific ones.
func (p *Payment) AddFormField(f FormField) {
	p.formFields = append(p.formFields, f)
}

func (p *Payment) FormRequirements() []FormRequirement {
	return append([]FormRequirement{}, p.formRequirements...)
}

func (p *Payment) AddFormRequirement(r FormRequirement) {
	p.formRequirements = append(p.formRequirements, r)
}
