// Package stripe adapts the official Stripe SDK to the charge-client
// surface the gateway flows consume. The secret key travels with each call
// instead of living on the client, so one process can serve any number of
// gateway accounts.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/charge"

	"github.com/frahmantamala/payment-integration/internal"
)

// ChargeParams is a charge attempt in the upstream API's terms: the amount
// is already converted to minor units.
type ChargeParams struct {
	AmountMinorUnits int64
	Currency         string
	SourceToken      string
	Description      string
	ReceiptEmail     string
}

type ChargeResult struct {
	ID             string
	Captured       bool
	FailureMessage string
	Status         string
}

type Client struct {
	backend stripeapi.Backend
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	timeout time.Duration
}

func NewClient(cfg internal.StripeConfig, logger *slog.Logger) *Client {
	// The SDK retries transient failures on its own; a failed charge attempt
	// here must surface immediately, so retries stay off.
	backendConfig := &stripeapi.BackendConfig{
		MaxNetworkRetries: stripeapi.Int64(0),
	}
	if cfg.APIBase != "" {
		backendConfig.URL = stripeapi.String(cfg.APIBase)
	}
	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, backendConfig)

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "stripe-charges",
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx responses mean the API is up and rejecting this request, only
		// transport trouble and 5xx should open the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var stripeErr *stripeapi.Error
			if errors.As(err, &stripeErr) {
				return stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &Client{
		backend: backend,
		breaker: breaker,
		logger:  logger,
		timeout: cfg.Timeout,
	}
}

// CreateCharge creates a charge in minor units against the account owning
// secretKey. A nil error with Captured false is a valid outcome: the API
// accepted the charge but did not capture the funds.
func (c *Client) CreateCharge(ctx context.Context, secretKey string, params ChargeParams) (*ChargeResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	chargeParams := &stripeapi.ChargeParams{
		Amount:   stripeapi.Int64(params.AmountMinorUnits),
		Currency: stripeapi.String(params.Currency),
	}
	chargeParams.Context = ctx
	if params.Description != "" {
		chargeParams.Description = stripeapi.String(params.Description)
	}
	if params.ReceiptEmail != "" {
		chargeParams.ReceiptEmail = stripeapi.String(params.ReceiptEmail)
	}
	if err := chargeParams.SetSource(params.SourceToken); err != nil {
		return nil, fmt.Errorf("set charge source: %w", err)
	}

	chargeClient := charge.Client{B: c.backend, Key: secretKey}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return chargeClient.New(chargeParams)
	})
	if err != nil {
		return nil, err
	}

	ch := result.(*stripeapi.Charge)
	return &ChargeResult{
		ID:             ch.ID,
		Captured:       ch.Captured,
		FailureMessage: ch.FailureMessage,
		Status:         string(ch.Status),
	}, nil
}

// VerifyCredentials probes the charges listing with the given secret key,
// the cheapest call that requires valid authentication.
func (c *Client) VerifyCredentials(ctx context.Context, secretKey string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	listParams := &stripeapi.ChargeListParams{}
	listParams.Context = ctx
	listParams.Limit = stripeapi.Int64(1)

	chargeClient := charge.Client{B: c.backend, Key: secretKey}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		iter := chargeClient.List(listParams)
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// IsAuthenticationError reports whether err is the API rejecting the
// credentials rather than the charge.
func IsAuthenticationError(err error) bool {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode == http.StatusUnauthorized
	}
	return false
}
