package gateway

import (
	"sort"
	"strings"
	"sync"

	errors "github.com/frahmantamala/payment-integration/internal"
)

// Registration is one live gateway account: a provider implementation bound
// to a named configuration.
type Registration struct {
	Provider    string
	GatewayName string
	Controller  Controller
}

// ServiceName renders the display name used in logs, events and audit
// records, e.g. ("izipay", "main") -> "Izipay-main".
func ServiceName(provider, gatewayName string) string {
	if provider == "" {
		return gatewayName
	}
	title := strings.ToUpper(provider[:1]) + provider[1:]
	if gatewayName == "" {
		return title
	}
	return title + "-" + gatewayName
}

// Registry holds the controllers for every enabled gateway configuration.
// It is populated at startup from stored settings and updated when an admin
// saves a configuration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Registration),
	}
}

func key(provider, gatewayName string) string {
	return provider + "/" + gatewayName
}

// Register makes a controller reachable under (provider, gatewayName),
// replacing any previous registration for the same pair.
func (r *Registry) Register(provider, gatewayName string, c Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key(provider, gatewayName)] = Registration{
		Provider:    provider,
		GatewayName: gatewayName,
		Controller:  c,
	}
}

// Deregister removes a gateway, typically when an admin disables it.
func (r *Registry) Deregister(provider, gatewayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key(provider, gatewayName))
}

func (r *Registry) Get(provider, gatewayName string) (Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[key(provider, gatewayName)]
	if !ok {
		return nil, errors.ErrGatewayNotFound
	}
	return reg.Controller, nil
}

// List returns all registrations ordered by provider then gateway name.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].GatewayName < out[j].GatewayName
	})
	return out
}
