package culqi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.culqi.com"

// ErrUnauthorized reports that Culqi rejected the secret key.
var ErrUnauthorized = errors.New("culqi rejected the secret key")

// ChargeParams carries one charge attempt against the Culqi API. Amounts are
// integer minor units, centimos for PEN.
type ChargeParams struct {
	AmountMinorUnits int64
	CurrencyCode     string
	SourceToken      string
	Email            string
	Description      string
}

// ChargeResult reports the outcome of a charge call. A decline is a result
// with Captured false, not an error: errors mean the charge never got a
// definite answer.
type ChargeResult struct {
	ID             string
	Captured       bool
	Outcome        string
	FailureMessage string
}

// Client is a thin wrapper over the Culqi charges API. The secret key
// travels per call so one client serves every gateway account.
type Client struct {
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(apiBase string, timeout time.Duration, logger *slog.Logger) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiBase:    apiBase,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) CreateCharge(ctx context.Context, secretKey string, params ChargeParams) (*ChargeResult, error) {
	payload := map[string]interface{}{
		"amount":        params.AmountMinorUnits,
		"currency_code": params.CurrencyCode,
		"source_id":     params.SourceToken,
		"email":         params.Email,
	}
	if params.Description != "" {
		payload["description"] = params.Description
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/charges", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var apiResponse struct {
			ID      string `json:"id"`
			Outcome struct {
				Type        string `json:"type"`
				UserMessage string `json:"user_message"`
			} `json:"outcome"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
			return nil, fmt.Errorf("decode charge response: %w", err)
		}

		c.logger.Info("culqi charge created",
			"charge_id", apiResponse.ID,
			"outcome", apiResponse.Outcome.Type)

		return &ChargeResult{
			ID:       apiResponse.ID,
			Captured: true,
			Outcome:  apiResponse.Outcome.Type,
		}, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Declines come back as client errors with a payer-facing
		// message, they are ordinary uncaptured results.
		var apiError struct {
			Type            string `json:"type"`
			UserMessage     string `json:"user_message"`
			MerchantMessage string `json:"merchant_message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiError); err != nil {
			return nil, fmt.Errorf("decode charge error: %w", err)
		}

		message := apiError.UserMessage
		if message == "" {
			message = apiError.MerchantMessage
		}

		c.logger.Info("culqi charge declined",
			"error_type", apiError.Type,
			"message", message)

		return &ChargeResult{
			Captured:       false,
			FailureMessage: message,
		}, nil

	default:
		return nil, fmt.Errorf("culqi API returned status %d", resp.StatusCode)
	}
}

// VerifyCredentials lists charges with the given key to confirm Culqi
// accepts it.
func (c *Client) VerifyCredentials(ctx context.Context, secretKey string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v2/charges?limit=1", nil)
	if err != nil {
		return fmt.Errorf("create verification request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("culqi API returned status %d", resp.StatusCode)
	}
}
