package paymentrequest

import (
	"time"

	errors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/core/common/validation"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/paymentrequest"
)

type CreatePaymentRequestDTO struct {
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	PayerEmail       string  `json:"payer_email,omitempty"`
	PayerName        string  `json:"payer_name,omitempty"`
	Description      string  `json:"description,omitempty"`
	GatewayProvider  string  `json:"gateway_provider"`
	GatewayName      string  `json:"gateway_name"`
	ReferenceDoctype string  `json:"reference_doctype,omitempty"`
	ReferenceDocname string  `json:"reference_docname,omitempty"`
	SuccessURL       string  `json:"success_url,omitempty"`
}

func (d *CreatePaymentRequestDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", d.Amount).Required().MinFloat(0.01, errors.ErrCodeInvalidAmount)
	validator.Field("currency", d.Currency).Required().CurrencyCode()
	validator.Field("gateway_provider", d.GatewayProvider).Required().MaxLength(50)
	validator.Field("gateway_name", d.GatewayName).Required().MaxLength(100)
	validator.Field("description", d.Description).MaxLength(500)
	validator.Field("success_url", d.SuccessURL).MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type PaymentRequestResponse struct {
	Name             string     `json:"name"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	PayerEmail       string     `json:"payer_email,omitempty"`
	PayerName        string     `json:"payer_name,omitempty"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	GatewayProvider  string     `json:"gateway_provider"`
	GatewayName      string     `json:"gateway_name"`
	ReferenceDoctype string     `json:"reference_doctype,omitempty"`
	ReferenceDocname string     `json:"reference_docname,omitempty"`
	SuccessURL       string     `json:"success_url,omitempty"`
	PaymentURL       string     `json:"payment_url,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toResponse(pr *datamodel.PaymentRequest) *PaymentRequestResponse {
	return &PaymentRequestResponse{
		Name:             pr.Name,
		Amount:           pr.Amount,
		Currency:         pr.Currency,
		PayerEmail:       pr.PayerEmail,
		PayerName:        pr.PayerName,
		Description:      pr.Description,
		Status:           pr.Status,
		GatewayProvider:  pr.GatewayProvider,
		GatewayName:      pr.GatewayName,
		ReferenceDoctype: pr.ReferenceDoctype,
		ReferenceDocname: pr.ReferenceDocname,
		SuccessURL:       pr.SuccessURL,
		PaidAt:           pr.PaidAt,
		CreatedAt:        pr.CreatedAt,
	}
}
