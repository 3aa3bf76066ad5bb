// Package gatewayconfig manages stored gateway accounts: saving credentials,
// verifying them with the provider, and keeping the live gateway registry in
// sync with what is enabled.
package gatewayconfig

import (
	"context"
	"encoding/json"
	"fmt"

	errors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/core/common/validation"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/gateway"
)

// ProviderAdapter is implemented once per payment provider. It turns stored
// config rows into live controllers and checks credentials against the
// provider's API.
type ProviderAdapter interface {
	Provider() string
	BuildController(cfg *datamodel.GatewayConfig) (gateway.Controller, error)
	VerifyCredentials(ctx context.Context, secretKey string) error
}

type RepositoryAPI interface {
	Upsert(cfg *datamodel.GatewayConfig) error
	GetByName(provider, gatewayName string) (*datamodel.GatewayConfig, error)
	List() ([]*datamodel.GatewayConfig, error)
	ListEnabled() ([]*datamodel.GatewayConfig, error)
}

// SaveGatewayDTO is the admin payload for creating or updating a gateway
// account. SecretKey is write only: it goes to the secret store and never
// comes back in responses.
type SaveGatewayDTO struct {
	PublishableKey      string             `json:"publishable_key"`
	SecretKey           string             `json:"secret_key,omitempty"`
	RedirectOverrideURL string             `json:"redirect_override_url,omitempty"`
	SupportedCurrencies []string           `json:"supported_currencies,omitempty"`
	MinimumAmounts      map[string]float64 `json:"minimum_amounts,omitempty"`
	Enabled             *bool              `json:"enabled,omitempty"`
}

func (d *SaveGatewayDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("publishable_key", d.PublishableKey).Required().MaxLength(255)

	for currency := range d.MinimumAmounts {
		validator.Field("minimum_amounts", currency).CurrencyCode()
	}
	for _, currency := range d.SupportedCurrencies {
		validator.Field("supported_currencies", currency).CurrencyCode()
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// WantsEnabled defaults to true: saving a gateway normally puts it in
// service.
func (d *SaveGatewayDTO) WantsEnabled() bool {
	if d.Enabled == nil {
		return true
	}
	return *d.Enabled
}

// GatewayResponse is the admin view of a stored gateway account.
type GatewayResponse struct {
	Provider            string             `json:"provider"`
	GatewayName         string             `json:"gateway_name"`
	ServiceName         string             `json:"service_name"`
	PublishableKey      string             `json:"publishable_key"`
	RedirectOverrideURL string             `json:"redirect_override_url,omitempty"`
	SupportedCurrencies []string           `json:"supported_currencies,omitempty"`
	MinimumAmounts      map[string]float64 `json:"minimum_amounts,omitempty"`
	Enabled             bool               `json:"enabled"`
	UpdatedBy           string             `json:"updated_by,omitempty"`
}

func toResponse(cfg *datamodel.GatewayConfig) (*GatewayResponse, error) {
	resp := &GatewayResponse{
		Provider:            cfg.Provider,
		GatewayName:         cfg.GatewayName,
		ServiceName:         gateway.ServiceName(cfg.Provider, cfg.GatewayName),
		PublishableKey:      cfg.PublishableKey,
		RedirectOverrideURL: cfg.RedirectOverrideURL,
		Enabled:             cfg.Enabled,
		UpdatedBy:           cfg.UpdatedBy,
	}

	if len(cfg.SupportedCurrencies) > 0 {
		if err := json.Unmarshal(cfg.SupportedCurrencies, &resp.SupportedCurrencies); err != nil {
			return nil, fmt.Errorf("decode supported currencies for gateway %s: %w", cfg.GatewayName, err)
		}
	}
	if len(cfg.MinimumAmounts) > 0 {
		if err := json.Unmarshal(cfg.MinimumAmounts, &resp.MinimumAmounts); err != nil {
			return nil, fmt.Errorf("decode minimum amounts for gateway %s: %w", cfg.GatewayName, err)
		}
	}

	return resp, nil
}

// SecretRef is the deterministic secret store key for a gateway account.
func SecretRef(provider, gatewayName string) string {
	return fmt.Sprintf("%s/%s/secret_key", provider, gatewayName)
}

var errUnknownProvider = errors.NewNotFoundError("unknown payment provider", errors.ErrCodeGatewayNotFound)
