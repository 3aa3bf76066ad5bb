package izipay

import (
	"context"

	errors "github.com/frahmantamala/payment-integration/internal"
	gatewayconfig "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/stripe"
)

// Adapter plugs Izipay into gateway administration: building controllers
// from stored configs and verifying credentials on save.
type Adapter struct {
	charges ChargeClient
}

func NewAdapter(charges ChargeClient) *Adapter {
	return &Adapter{charges: charges}
}

func (a *Adapter) Provider() string {
	return Provider
}

func (a *Adapter) BuildController(cfg *gatewayconfig.GatewayConfig) (gateway.Controller, error) {
	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// VerifyCredentials asks the provider whether the secret key is usable. A
// rejected key gets the admin-facing message, anything else means the
// provider could not be reached and says so.
func (a *Adapter) VerifyCredentials(ctx context.Context, secretKey string) error {
	if err := a.charges.VerifyCredentials(ctx, secretKey); err != nil {
		if stripe.IsAuthenticationError(err) {
			return errors.NewValidationError(CredentialsErrorMessage, errors.ErrCodeInvalidCredentials)
		}
		return errors.NewExternalError("could not verify credentials with the payment provider", errors.ErrCodeInvalidCredentials, err)
	}
	return nil
}
