package payment

import (
	"fmt"
	"sort"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

// Registry resolves configured gateways by provider name.
type Registry struct {
	gateways map[string]Gateway
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]Gateway)}
}

// Register adds or replaces a gateway under its own name.
func (r *Registry) Register(g Gateway) {
	r.gateways[g.Name()] = g
}

// Get returns the gateway for provider.
func (r *Registry) Get(provider string) (Gateway, error) {
	if g, ok := r.gateways[provider]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("payment provider %s not configured", provider)
}

// Names lists registered providers in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig registers every provider that has credentials configured.
func NewRegistryFromConfig(cfg config.PaymentConfig) *Registry {
	reg := NewRegistry()
	if cfg.PaystackSecretKey != "" {
		reg.Register(NewPaystack(PaystackConfig{
			SecretKey: cfg.PaystackSecretKey,
			BaseURL:   cfg.PaystackBaseURL,
			Timeout:   cfg.Timeout,
		}))
	}
	if cfg.MidtransServerKey != "" {
		reg.Register(NewMidtrans(MidtransConfig{
			ServerKey:  cfg.MidtransServerKey,
			Production: cfg.MidtransProduction,
			Timeout:    cfg.Timeout,
		}))
	}
	return reg
}
