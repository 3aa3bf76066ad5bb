package culqi

import (
	errors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/core/common/validation"
)

// PaymentAttempt is the payload the hosted checkout page posts back once the
// payer's card details have been tokenized.
type PaymentAttempt struct {
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Token            string  `json:"token"`
	Description      string  `json:"description,omitempty"`
	PayerEmail       string  `json:"payer_email,omitempty"`
	PayerName        string  `json:"payer_name,omitempty"`
	OrderID          string  `json:"order_id,omitempty"`
	Title            string  `json:"title,omitempty"`
	ReferenceDoctype string  `json:"reference_doctype,omitempty"`
	ReferenceDocname string  `json:"reference_docname,omitempty"`
	RedirectTo       string  `json:"redirect_to,omitempty"`
	RedirectMessage  string  `json:"redirect_message,omitempty"`
}

func (a *PaymentAttempt) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", a.Amount).Required().MinFloat(0.01, errors.ErrCodeInvalidAmount)
	validator.Field("currency", a.Currency).Required().CurrencyCode()
	validator.Field("token", a.Token).Required().MaxLength(255)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
