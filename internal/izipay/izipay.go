// Package izipay implements the Izipay payment gateway. Izipay fronts the
// Stripe charge API, so checkout runs through the shared stripe client while
// currency support and minimum amounts follow Izipay's own rules.
package izipay

import (
	"encoding/json"
	"fmt"
	"strconv"

	errors "github.com/frahmantamala/payment-integration/internal"
	gatewayconfig "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/gateway"
)

const (
	// Provider is the registry key for every Izipay gateway account.
	Provider = "izipay"

	// auditServiceName tags request log entries, shared across all Izipay
	// gateway accounts.
	auditServiceName = "Izipay"

	// CredentialsErrorMessage is shown to admins when the configured keys
	// are rejected by the provider.
	CredentialsErrorMessage = "Seems Publishable Key or Secret Key is wrong !!!"
)

var (
	// DefaultSupportedCurrencies applies when a gateway account does not
	// override the currency list.
	DefaultSupportedCurrencies = []string{"PEN"}

	// DefaultMinimumAmounts applies when a gateway account does not
	// override per-currency minimums.
	DefaultMinimumAmounts = map[string]float64{"PEN": 1}
)

// Settings is one configured Izipay gateway account. It implements
// gateway.Controller plus the optional minimum amount check.
type Settings struct {
	GatewayName         string
	PublishableKey      string
	SecretKeyRef        string
	RedirectOverrideURL string
	SupportedCurrencies []string
	MinimumAmounts      map[string]float64
}

// SettingsFromConfig builds live gateway settings from a stored config row,
// falling back to the Izipay defaults for currencies and minimums.
func SettingsFromConfig(cfg *gatewayconfig.GatewayConfig) (*Settings, error) {
	s := &Settings{
		GatewayName:         cfg.GatewayName,
		PublishableKey:      cfg.PublishableKey,
		SecretKeyRef:        cfg.SecretKeyRef,
		RedirectOverrideURL: cfg.RedirectOverrideURL,
		SupportedCurrencies: DefaultSupportedCurrencies,
		MinimumAmounts:      DefaultMinimumAmounts,
	}

	if len(cfg.SupportedCurrencies) > 0 {
		var currencies []string
		if err := json.Unmarshal(cfg.SupportedCurrencies, &currencies); err != nil {
			return nil, fmt.Errorf("decode supported currencies for gateway %s: %w", cfg.GatewayName, err)
		}
		if len(currencies) > 0 {
			s.SupportedCurrencies = currencies
		}
	}

	if len(cfg.MinimumAmounts) > 0 {
		var minimums map[string]float64
		if err := json.Unmarshal(cfg.MinimumAmounts, &minimums); err != nil {
			return nil, fmt.Errorf("decode minimum amounts for gateway %s: %w", cfg.GatewayName, err)
		}
		if len(minimums) > 0 {
			s.MinimumAmounts = minimums
		}
	}

	return s, nil
}

// ServiceName is the display name this account registers under, for example
// "Izipay-main".
func (s *Settings) ServiceName() string {
	return gateway.ServiceName(Provider, s.GatewayName)
}

func (s *Settings) ValidateTransactionCurrency(currency string) error {
	for _, supported := range s.SupportedCurrencies {
		if supported == currency {
			return nil
		}
	}
	return errors.NewValidationError(
		fmt.Sprintf("Please select another payment method. Izipay does not support transactions in currency '%s'", currency),
		errors.ErrCodeUnsupportedCurrency,
	)
}

func (s *Settings) ValidateMinimumTransactionAmount(currency string, amount float64) error {
	minimum, ok := s.MinimumAmounts[currency]
	if !ok {
		return nil
	}
	if amount < minimum {
		return errors.NewValidationError(
			fmt.Sprintf("For currency %s, the minimum transaction amount should be %s",
				currency, strconv.FormatFloat(minimum, 'f', -1, 64)),
			errors.ErrCodeAmountTooLow,
		)
	}
	return nil
}

// PaymentURL sends the payer to the hosted stripe checkout page with every
// attempt detail in the query string.
func (s *Settings) PaymentURL(params gateway.PaymentURLParams) (string, error) {
	return "./stripe_checkout?" + params.Values().Encode(), nil
}
