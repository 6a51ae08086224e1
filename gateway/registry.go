package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"payment-records/models"
)

// ClassSuffix is appended to a gateway name to form its handler type name.
const ClassSuffix = "_Payment"

var ErrGatewayNotDefined = errors.New("payment gateway class is not defined")

// ConfigError means a configured gateway has no registered implementation.
// It is a deployment defect and is never retried.
type ConfigError struct {
	Gateway   string
	ClassName string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s (gateway %q)", ErrGatewayNotDefined, e.ClassName, e.Gateway)
}

func (e *ConfigError) Unwrap() error {
	return ErrGatewayNotDefined
}

func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Gateway processes a payment attempt in process.
type Gateway interface {
	Hosting() models.Hosting
	// Process returns the outcome of the attempt. A non-nil error is an
	// exception raised while processing, not a declined payment.
	Process(ctx context.Context, p *models.Payment, form map[string]string) (models.Result, error)
}

// Factory builds a fresh gateway handler.
type Factory func() Gateway

// Registry maps handler type names to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a handler type, e.g. "PayPal_Payment".
func (r *Registry) Register(className string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[className] = factory
}

// ClassName resolves a gateway name to its registered handler type name.
func (r *Registry) ClassName(gatewayName string) (string, error) {
	className := gatewayName + ClassSuffix

	r.mu.RLock()
	_, ok := r.factories[className]
	r.mu.RUnlock()

	if !ok {
		return "", &ConfigError{Gateway: gatewayName, ClassName: className}
	}
	return className, nil
}

// New resolves gatewayName and builds its handler.
func (r *Registry) New(gatewayName string) (Gateway, error) {
	className, err := r.ClassName(gatewayName)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory := r.factories[className]
	r.mu.RUnlock()

	return factory(), nil
}

// Restrict returns a registry holding only the named gateways. Every name
// must resolve, otherwise the first unresolved one is returned as a
// *ConfigError and no registry is built.
func (r *Registry) Restrict(gatewayNames []string) (*Registry, error) {
	restricted := NewRegistry()
	for _, name := range gatewayNames {
		className, err := r.ClassName(name)
		if err != nil {
			return nil, err
		}

		r.mu.RLock()
		factory := r.factories[className]
		r.mu.RUnlock()

		restricted.Register(className, factory)
	}
	return restricted, nil
}

// Names returns the registered handler type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Form returns the checkout form view of p for the given gateway.
func Form(gw Gateway, p *models.Payment, cvnMode bool) models.Form {
	if gw.Hosting() == models.HostingMerchant {
		return models.NewMerchantHosted(p, cvnMode)
	}
	return models.NewGatewayHosted(p)
}
