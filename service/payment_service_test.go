package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"payment-records/gateway"
	"payment-records/models"
)

var tracer = noop.NewTracerProvider().Tracer("test")

func registryWith(gw gateway.Gateway) *gateway.Registry {
	r := gateway.NewRegistry()
	r.Register("Mock_Payment", func() gateway.Gateway { return gw })
	return r
}

func request(amount string) *models.PaymentRequest {
	return &models.PaymentRequest{
		Gateway:  "Mock",
		Amount:   decimal.RequireFromString(amount),
		PaidFor:  models.EntityRef{Class: "Order", ID: 9},
		PaidByID: 4,
		IP:       "10.0.0.2",
		ProxyIP:  "198.51.100.7",
	}
}

func TestPaymentService_ProcessPayment(t *testing.T) {
	var tests = []struct {
		name      string
		result    models.Result
		procErr   error
		status    models.Status
		message   string
		exception string
	}{
		{name: "success", result: models.Success("approved"), status: models.StatusSuccess, message: "approved"},
		{name: "processing becomes pending", result: models.Processing("awaiting receipt"), status: models.StatusPending, message: "awaiting receipt"},
		{name: "failure", result: models.Failure("declined"), status: models.StatusFailure, message: "declined"},
		{name: "exception captured", result: models.Result{}, procErr: errors.New("connection reset"), status: models.StatusFailure, exception: "connection reset"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			gw := new(GatewayMock)
			gw.On("Process", mock.Anything, mock.AnythingOfType("*models.Payment"), mock.Anything).Return(tt.result, tt.procErr)

			repo := new(RepositoryMock)
			repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
				return p.Status == models.StatusIncomplete
			})).Return(nil)

			var saved *models.Payment
			repo.On("Save", mock.Anything, mock.AnythingOfType("*models.Payment")).Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.Payment)
			}).Return(nil)

			svc := NewPaymentService(tracer, repo, registryWith(gw), true)
			resp, err := svc.ProcessPayment(ctx, request("19.99"))
			require.NoError(t, err)
			require.Equal(t, tt.status, resp.Status)
			require.Equal(t, "19.99", resp.Amount)
			require.Equal(t, "Mock", resp.Gateway)

			require.NotNil(t, saved)
			require.Equal(t, tt.status, saved.Status)
			require.Equal(t, tt.message, saved.Message)
			require.Equal(t, tt.exception, saved.ExceptionError)
			require.Equal(t, "10.0.0.2", saved.IP)
			require.Equal(t, "198.51.100.7", saved.ProxyIP)
			require.Equal(t, models.EntityRef{Class: "Order", ID: 9}, saved.PaidFor())
			require.Equal(t, int64(4), saved.PaidByID)

			repo.AssertExpectations(t)
			gw.AssertExpectations(t)
		})
	}
}

func TestPaymentService_ProcessPayment_UnknownGateway(t *testing.T) {
	repo := new(RepositoryMock)
	svc := NewPaymentService(tracer, repo, gateway.NewRegistry(), true)

	req := request("10.00")
	req.Gateway = "PayPal"
	_, err := svc.ProcessPayment(context.Background(), req)
	require.ErrorIs(t, err, gateway.ErrGatewayNotDefined)
	require.True(t, gateway.IsConfigError(err))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_ProcessPayment_InvalidRequest(t *testing.T) {
	var tests = []struct {
		name string
		req  func() *models.PaymentRequest
	}{
		{name: "zero amount", req: func() *models.PaymentRequest { return request("0") }},
		{name: "negative amount", req: func() *models.PaymentRequest { return request("-1") }},
		{name: "bad payment date", req: func() *models.PaymentRequest {
			r := request("5")
			r.PaymentDate = "31/01/2026"
			return r
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := new(RepositoryMock)
			svc := NewPaymentService(tracer, repo, registryWith(new(GatewayMock)), true)
			_, err := svc.ProcessPayment(context.Background(), tt.req())
			require.ErrorIs(t, err, ErrInvalidRequest)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_ProcessPayment_DefaultsToSiteCurrency(t *testing.T) {
	models.SetSiteCurrency("NZD")
	t.Cleanup(func() { models.SetSiteCurrency("USD") })

	gw := new(GatewayMock)
	gw.On("Process", mock.Anything, mock.Anything, mock.Anything).Return(models.Success(nil), nil)

	repo := new(RepositoryMock)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewPaymentService(tracer, repo, registryWith(gw), true)

	req := request("12.50")
	req.PaymentDate = "2026-05-01"
	resp, err := svc.ProcessPayment(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "NZD", resp.Currency)

	req = request("12.50")
	req.Currency = "EUR"
	resp, err = svc.ProcessPayment(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "EUR", resp.Currency)
}

func TestPaymentService_ProcessPayment_RepositoryErrors(t *testing.T) {
	dbErr := errors.New("db down")

	repo := new(RepositoryMock)
	repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)
	gw := new(GatewayMock)
	svc := NewPaymentService(tracer, repo, registryWith(gw), true)

	_, err := svc.ProcessPayment(context.Background(), request("5"))
	require.ErrorIs(t, err, dbErr)
	gw.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)

	repo = new(RepositoryMock)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(dbErr)
	gw = new(GatewayMock)
	gw.On("Process", mock.Anything, mock.Anything, mock.Anything).Return(models.Success(nil), nil)
	svc = NewPaymentService(tracer, repo, registryWith(gw), true)

	_, err = svc.ProcessPayment(context.Background(), request("5"))
	require.ErrorIs(t, err, dbErr)
}

func TestPaymentService_GetAndLatest(t *testing.T) {
	ctx := context.Background()
	stored := &models.Payment{ID: 3, Status: models.StatusSuccess}
	ref := models.EntityRef{Class: "Subscription", ID: 2}

	repo := new(RepositoryMock)
	repo.On("Get", mock.Anything, uint(3)).Return(stored, nil)
	repo.On("LatestRecurring", mock.Anything, ref).Return(stored, nil)
	repo.On("ListByPayer", mock.Anything, int64(8)).Return([]models.Payment{*stored}, nil)

	svc := NewPaymentService(tracer, repo, gateway.NewRegistry(), true)

	got, err := svc.GetPayment(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, stored, got)

	got, err = svc.LatestRecurring(ctx, ref)
	require.NoError(t, err)
	require.Equal(t, stored, got)

	list, err := svc.PayerPayments(ctx, 8)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestPaymentService_FormFields(t *testing.T) {
	svc := NewPaymentService(tracer, new(RepositoryMock), gateway.DefaultRegistry(true), true)

	form, err := svc.FormFields(gateway.DummyGateway)
	require.NoError(t, err)
	require.Equal(t, models.HostingMerchant, form.Hosting)
	require.Len(t, form.Fields, 4)
	require.Len(t, form.Requirements, 4)

	form, err = svc.FormFields(gateway.ChequeGateway)
	require.NoError(t, err)
	require.Equal(t, models.HostingGateway, form.Hosting)
	require.Empty(t, form.Fields)

	_, err = svc.FormFields("PayPal")
	require.True(t, gateway.IsConfigError(err))
}
