package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"payment-records/gateway"
	"payment-records/logging"
	"payment-records/models"
	"payment-records/monitoring"
)

var ErrInvalidRequest = errors.New("invalid payment request")

// Repository stores payment records.
type Repository interface {
	Create(ctx context.Context, p *models.Payment) error
	Save(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id uint) (*models.Payment, error)
	LatestRecurring(ctx context.Context, ref models.EntityRef) (*models.Payment, error)
	ListByPayer(ctx context.Context, memberID int64) ([]models.Payment, error)
}

// PaymentService runs payment attempts against registered gateways and
// keeps the audit record of each attempt.
type PaymentService struct {
	tracer   trace.Tracer
	repo     Repository
	gateways *gateway.Registry
	cvnMode  bool
}

// NewPaymentService creates a new payment service
func NewPaymentService(tracer trace.Tracer, repo Repository, gateways *gateway.Registry, cvnMode bool) *PaymentService {
	return &PaymentService{
		tracer:   tracer,
		repo:     repo,
		gateways: gateways,
		cvnMode:  cvnMode,
	}
}

// ProcessPayment records a payment attempt and runs it through the requested
// gateway. An unknown gateway is a configuration error and nothing is stored.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "process_payment")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment.gateway", req.Gateway),
		attribute.String("payment.amount", req.Amount.String()),
		attribute.String("payment.paid_for", req.PaidFor.String()),
	)
	logger := logging.WithTraceContext(span)

	gw, err := s.gateways.New(req.Gateway)
	if err != nil {
		logger.Error("Payment gateway is not configured",
			zap.Error(err),
			zap.String("gateway", req.Gateway),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway not defined")
		return nil, err
	}

	p, err := s.newRecord(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	logger.Info("Processing payment",
		zap.Uint("payment_id", p.ID),
		zap.String("gateway", req.Gateway),
		zap.String("amount", p.Amount.String()),
		zap.String("ip", p.IP),
	)

	start := time.Now()
	res, procErr := gw.Process(ctx, p, req.Form)
	duration := time.Since(start).Seconds()

	if procErr != nil {
		logger.Error("Payment processing raised an exception",
			zap.Error(procErr),
			zap.Uint("payment_id", p.ID),
			zap.String("gateway", req.Gateway),
		)
		span.RecordError(procErr)
		p.RecordException(procErr)
	} else {
		p.ApplyResult(res)
	}

	// the attempt is already over; keep the audit trail even if the caller left
	if err := s.repo.Save(context.WithoutCancel(ctx), p); err != nil {
		return nil, fmt.Errorf("save payment %d: %w", p.ID, err)
	}

	attrs := metric.WithAttributes(
		attribute.String("gateway", req.Gateway),
		attribute.String("status", string(p.Status)),
	)
	monitoring.GatewayCallDuration.Record(ctx, duration, attrs)
	monitoring.PaymentCounter.Add(ctx, 1, attrs)
	if p.Status == models.StatusSuccess {
		amount, _ := p.Amount.Amount.Float64()
		monitoring.PaymentAmount.Record(ctx, amount,
			metric.WithAttributes(
				attribute.String("gateway", req.Gateway),
				attribute.String("currency", p.Amount.Currency),
			),
		)
	}

	span.SetAttributes(
		attribute.Int("payment.id", int(p.ID)),
		attribute.String("payment.status", string(p.Status)),
	)

	switch p.Status {
	case models.StatusFailure:
		logger.Warn("Payment failed",
			zap.Uint("payment_id", p.ID),
			zap.String("message", p.Message),
			zap.String("exception", p.ExceptionError),
		)
	default:
		logger.Info("Payment processed",
			zap.Uint("payment_id", p.ID),
			zap.String("status", string(p.Status)),
		)
	}

	return models.NewPaymentResponse(p, req.Gateway), nil
}

func (s *PaymentService) newRecord(req *models.PaymentRequest) (*models.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}

	p := models.NewPayment()
	p.Amount = models.NewMoney(req.Amount, req.Currency)
	p.IP = req.IP
	p.ProxyIP = req.ProxyIP
	p.SetPaidFor(req.PaidFor)
	p.PaidObjectID = req.PaidObjectID
	p.PaidByID = req.PaidByID

	if req.PaymentDate != "" {
		date, err := time.Parse(time.DateOnly, req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: payment date: %v", ErrInvalidRequest, err)
		}
		p.SetPaymentDate(date)
	}
	return p, nil
}

// GetPayment returns a stored payment record.
func (s *PaymentService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "get_payment")
	defer span.End()
	span.SetAttributes(attribute.Int("payment.id", int(id)))

	return s.repo.Get(ctx, id)
}

// LatestRecurring returns the most recent payment of a recurring series.
func (s *PaymentService) LatestRecurring(ctx context.Context, ref models.EntityRef) (*models.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "latest_recurring_payment")
	defer span.End()
	span.SetAttributes(attribute.String("payment.paid_for", ref.String()))

	return s.repo.LatestRecurring(ctx, ref)
}

// PayerPayments lists the payments made by a member, newest first.
func (s *PaymentService) PayerPayments(ctx context.Context, memberID int64) ([]models.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "payer_payments")
	defer span.End()
	span.SetAttributes(attribute.Int64("payment.paid_by", memberID))

	return s.repo.ListByPayer(ctx, memberID)
}

// FormFields describes the checkout form for a gateway.
func (s *PaymentService) FormFields(gatewayName string) (*models.FormResponse, error) {
	gw, err := s.gateways.New(gatewayName)
	if err != nil {
		return nil, err
	}

	form := gateway.Form(gw, models.NewPayment(), s.cvnMode)
	return &models.FormResponse{
		Gateway:      gatewayName,
		Hosting:      form.Hosting(),
		Fields:       form.FormFields(),
		Requirements: form.FormRequirements(),
	}, nil
}
