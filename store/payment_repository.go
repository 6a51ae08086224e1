package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"payment-records/models"
)

var ErrNotFound = errors.New("payment not found")

// PaymentRepository persists payment records. Records are audit history and
// are never deleted.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepository) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestRecurring returns the payment with the most recent payment date in
// the recurring series for ref.
func (r *PaymentRepository) LatestRecurring(ctx context.Context, ref models.EntityRef) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).
		Where("paid_for_class = ? AND paid_for_id = ? AND payment_date IS NOT NULL", ref.Class, ref.ID).
		Order("payment_date DESC").
		Order("id DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByPayer returns every payment made by a member, newest first.
func (r *PaymentRepository) ListByPayer(ctx context.Context, memberID int64) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.WithContext(ctx).
		Where("paid_by_id = ?", memberID).
		Order("id DESC").
		Find(&payments).Error
	return payments, err
}
