package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-records/models"
)

const (
	DummyGateway  = "Dummy"
	ChequeGateway = "Cheque"
)

// DefaultRegistry returns a registry holding the built-in gateways.
func DefaultRegistry(cvnMode bool) *Registry {
	r := NewRegistry()
	r.Register(DummyGateway+ClassSuffix, func() Gateway { return &Dummy{CVNMode: cvnMode} })
	r.Register(ChequeGateway+ClassSuffix, func() Gateway { return &Cheque{} })
	return r
}

var ErrNonPositiveAmount = errors.New("amount must be positive")

var (
	oneCent  = decimal.New(1, -2)
	twoCents = decimal.New(2, -2)
)

// Dummy is a merchant hosted test gateway. The cents of the amount pick the
// outcome: .01 fails, .02 stays processing, anything else succeeds.
type Dummy struct {
	CVNMode bool
}

func (d *Dummy) Hosting() models.Hosting {
	return models.HostingMerchant
}

func (d *Dummy) Process(ctx context.Context, p *models.Payment, form map[string]string) (models.Result, error) {
	if err := ctx.Err(); err != nil {
		return models.Result{}, err
	}
	if !p.Amount.Amount.IsPositive() {
		return models.Failure(ErrNonPositiveAmount), nil
	}

	reqs := models.NewMerchantHosted(p, d.CVNMode).FormRequirements()
	if err := models.ValidateForm(reqs, form); err != nil {
		return models.Failure(err), nil
	}

	cents := p.Amount.Amount.Sub(p.Amount.Amount.Truncate(0)).Round(2)
	switch {
	case cents.Equal(oneCent):
		return models.Failure("payment declined"), nil
	case cents.Equal(twoCents):
		return models.Processing("payment held for review"), nil
	}
	return models.Success("transaction " + uuid.NewString()), nil
}

// Cheque is a gateway hosted offline method: the payment waits for receipt.
type Cheque struct{}

func (c *Cheque) Hosting() models.Hosting {
	return models.HostingGateway
}

func (c *Cheque) Process(ctx context.Context, p *models.Payment, _ map[string]string) (models.Result, error) {
	if err := ctx.Err(); err != nil {
		return models.Result{}, err
	}
	return models.Processing("awaiting receipt of cheque"), nil
}
