package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"payment-records/models"
)

func newTestRepository(t *testing.T) *PaymentRepository {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewPaymentRepository(db)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
}

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	p := models.NewPayment()
	p.Amount = models.Money{Amount: decimal.RequireFromString("19.99"), Currency: "USD"}
	p.IP = "10.0.0.1"
	p.ProxyIP = "203.0.113.9"
	p.SetPaidFor(models.EntityRef{Class: "Order", ID: 12})
	p.PaidByID = 3
	p.PaidObjectID = 12
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	p.Status = models.StatusSuccess
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSuccess, got.Status)
	require.True(t, got.Amount.Amount.Equal(decimal.RequireFromString("19.99")))
	require.Equal(t, "USD", got.Amount.Currency)
	require.Equal(t, "10.0.0.1", got.IP)
	require.Equal(t, "203.0.113.9", got.ProxyIP)
	require.Equal(t, models.EntityRef{Class: "Order", ID: 12}, got.PaidFor())
	require.Equal(t, int64(3), got.PaidByID)
	require.Empty(t, got.ExceptionError)
}

func TestPaymentRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentRepository_RejectsUnknownStatus(t *testing.T) {
	repo := newTestRepository(t)
	p := models.NewPayment()
	p.Status = "Refunded"
	require.Error(t, repo.Create(context.Background(), p))
}

func TestPaymentRepository_LatestRecurring(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	sub := models.EntityRef{Class: "Subscription", ID: 5}

	var ids []uint
	for _, day := range []int{1, 3, 2} {
		p := models.NewPayment()
		p.SetPaidFor(sub)
		p.SetPaymentDate(time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	other := models.NewPayment()
	other.SetPaidFor(models.EntityRef{Class: "Subscription", ID: 6})
	other.SetPaymentDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, other))

	latest, err := repo.LatestRecurring(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, ids[1], latest.ID)

	_, err = repo.LatestRecurring(ctx, models.EntityRef{Class: "Subscription", ID: 7})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentRepository_ListByPayer(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, payer := range []int64{1, 2, 1} {
		p := models.NewPayment()
		p.PaidByID = payer
		require.NoError(t, repo.Create(ctx, p))
	}

	payments, err := repo.ListByPayer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Greater(t, payments[0].ID, payments[1].ID)
}
