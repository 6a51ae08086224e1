package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"payment-records/gateway"
	"payment-records/logging"
	"payment-records/models"
	"payment-records/service"
	"payment-records/store"
)

// PaymentHandler handles HTTP requests for payments
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Register mounts the payment routes on r.
func (h *PaymentHandler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.POST("/payments", h.ProcessPayment)
	api.GET("/payments/:id", h.GetPayment)
	api.GET("/recurring/:class/:id/latest", h.LatestRecurring)
	api.GET("/members/:id/payments", h.PayerPayments)
	api.GET("/gateways/:name/form", h.FormFields)
}

// ProcessPayment handles payment processing requests
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.IP = c.RemoteIP()
	req.ProxyIP = c.GetHeader("X-Forwarded-For")

	response, err := h.paymentService.ProcessPayment(ctx, &req)
	if err != nil {
		logger := logging.WithTraceContext(span)
		logger.Error("Payment processing failed",
			zap.Error(err),
			zap.String("gateway", req.Gateway),
			zap.String("amount", req.Amount.String()),
		)
		writeError(c, err)
		return
	}

	span.AddEvent("payment_processed")
	c.JSON(http.StatusOK, response)
}

// GetPayment returns a stored payment record
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	p, err := h.paymentService.GetPayment(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// LatestRecurring returns the newest payment of a recurring series
func (h *PaymentHandler) LatestRecurring(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid for id"})
		return
	}

	ref := models.EntityRef{Class: c.Param("class"), ID: id}
	p, err := h.paymentService.LatestRecurring(c.Request.Context(), ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PayerPayments lists the payments made by a member
func (h *PaymentHandler) PayerPayments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	payments, err := h.paymentService.PayerPayments(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// FormFields describes the checkout form of a gateway
func (h *PaymentHandler) FormFields(c *gin.Context) {
	form, err := h.paymentService.FormFields(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// HealthCheck handles health check requests
func (h *PaymentHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case gateway.IsConfigError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "configuration"})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
