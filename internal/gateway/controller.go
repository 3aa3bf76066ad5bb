// Package gateway defines the contract every payment gateway implements and
// the helpers that let the rest of the system talk to a gateway without
// knowing which provider is behind it.
//
// A gateway must implement the two Controller methods. The remaining
// capabilities are optional upgrade interfaces in the manner of http.Flusher:
// callers go through the package-level dispatch helpers, which fall back to a
// safe default when the gateway does not implement the capability.
package gateway

import (
	"context"
	"net/url"
	"strconv"
)

// Controller is the mandatory surface of a payment gateway.
type Controller interface {
	// ValidateTransactionCurrency fails when the gateway cannot settle
	// transactions in the given currency. Matching is exact, no case
	// folding or aliasing.
	ValidateTransactionCurrency(currency string) error

	// PaymentURL builds the checkout URL the payer is sent to. It has no
	// side effects beyond encoding params into the query string.
	PaymentURL(params PaymentURLParams) (string, error)
}

// PaymentURLParams carries everything a hosted checkout page needs to render
// and later hand back to the charge flow.
type PaymentURLParams struct {
	Amount           float64 `json:"amount"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ReferenceDoctype string  `json:"reference_doctype"`
	ReferenceDocname string  `json:"reference_docname"`
	PayerName        string  `json:"payer_name"`
	PayerEmail       string  `json:"payer_email"`
	OrderID          string  `json:"order_id"`
	Currency         string  `json:"currency"`
}

// Values encodes all params for the checkout query string. Every field is
// included, absent values encode as empty, matching what checkout pages
// expect to find.
func (p PaymentURLParams) Values() url.Values {
	v := url.Values{}
	v.Set("amount", strconv.FormatFloat(p.Amount, 'f', -1, 64))
	v.Set("title", p.Title)
	v.Set("description", p.Description)
	v.Set("reference_doctype", p.ReferenceDoctype)
	v.Set("reference_docname", p.ReferenceDocname)
	v.Set("payer_name", p.PayerName)
	v.Set("payer_email", p.PayerEmail)
	v.Set("order_id", p.OrderID)
	v.Set("currency", p.Currency)
	return v
}

// SubmissionData is the slice of a payment request a gateway sees when the
// request is submitted.
type SubmissionData struct {
	Amount           float64
	Currency         string
	PayerEmail       string
	ReferenceDoctype string
	ReferenceDocname string
}

// MinimumAmountValidator is implemented by gateways that enforce a floor on
// transaction amounts per currency.
type MinimumAmountValidator interface {
	ValidateMinimumTransactionAmount(currency string, amount float64) error
}

// PaymentRequester is implemented by gateways that can actively request a
// payment from the payer instead of waiting for checkout.
type PaymentRequester interface {
	RequestForPayment(ctx context.Context, params PaymentURLParams) error
}

// SubmissionHook is implemented by gateways that want a say when a payment
// request is submitted. Returning false rejects the submission.
type SubmissionHook interface {
	OnPaymentRequestSubmission(data SubmissionData) (bool, error)
}

// ValidateMinimumTransactionAmount dispatches to the controller's minimum
// amount check. Gateways without one accept any amount.
func ValidateMinimumTransactionAmount(c Controller, currency string, amount float64) error {
	if v, ok := c.(MinimumAmountValidator); ok {
		return v.ValidateMinimumTransactionAmount(currency, amount)
	}
	return nil
}

// RequestForPayment dispatches to the controller's payment-request flow.
// Gateways without one treat it as a no-op.
func RequestForPayment(ctx context.Context, c Controller, params PaymentURLParams) error {
	if r, ok := c.(PaymentRequester); ok {
		return r.RequestForPayment(ctx, params)
	}
	return nil
}

// OnPaymentRequestSubmission dispatches to the controller's submission hook.
// Gateways without one accept the submission.
func OnPaymentRequestSubmission(c Controller, data SubmissionData) (bool, error) {
	if h, ok := c.(SubmissionHook); ok {
		return h.OnPaymentRequestSubmission(data)
	}
	return true, nil
}
