package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"payment-records/models"
)

type RepositoryMock struct {
	mock.Mock
	Repository
}

func (m *RepositoryMock) Create(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *RepositoryMock) Save(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *RepositoryMock) Get(ctx context.Context, id uint) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepositoryMock) LatestRecurring(ctx context.Context, ref models.EntityRef) (*models.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepositoryMock) ListByPayer(ctx context.Context, memberID int64) ([]models.Payment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

// GatewayMock returns a fixed outcome from Process.
type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) Hosting() models.Hosting {
	return models.HostingGateway
}

func (m *GatewayMock) Process(ctx context.Context, p *models.Payment, form map[string]string) (models.Result, error) {
	args := m.Called(ctx, p, form)
	return args.Get(0).(models.Result), args.Error(1)
}
