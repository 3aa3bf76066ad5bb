package paymentrequest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/payment-integration/internal"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/paymentrequest"
	"github.com/frahmantamala/payment-integration/internal/gateway"
)

type Service struct {
	repo     RepositoryAPI
	registry *gateway.Registry
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, registry *gateway.Registry, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

// Create stores a draft. The gateway is not consulted until submission, a
// draft can reference a gateway that is not configured yet.
func (s *Service) Create(dto *CreatePaymentRequestDTO) (*PaymentRequestResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	pr := &datamodel.PaymentRequest{
		Name:             NewName(),
		Amount:           dto.Amount,
		Currency:         dto.Currency,
		PayerEmail:       dto.PayerEmail,
		PayerName:        dto.PayerName,
		Description:      dto.Description,
		Status:           StatusDraft,
		GatewayProvider:  dto.GatewayProvider,
		GatewayName:      dto.GatewayName,
		ReferenceDoctype: dto.ReferenceDoctype,
		ReferenceDocname: dto.ReferenceDocname,
		SuccessURL:       dto.SuccessURL,
	}

	if err := s.repo.Create(pr); err != nil {
		return nil, errors.NewInternalError("saving the payment request failed", err)
	}

	s.logger.Info("payment request created",
		"name", pr.Name,
		"amount", pr.Amount,
		"currency", pr.Currency,
		"gateway_provider", pr.GatewayProvider,
		"gateway_name", pr.GatewayName)

	return toResponse(pr), nil
}

// Submit moves a draft to requested. The gateway gets three chances to stop
// it: currency support, minimum amount, and its submission hook. A gateway
// that can actively collect the payment is kicked off here as well.
func (s *Service) Submit(ctx context.Context, name string) (*PaymentRequestResponse, error) {
	pr, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}

	if pr.Status != StatusDraft {
		return nil, errors.NewValidationError(
			fmt.Sprintf("payment request %s was already submitted", name),
			errors.ErrCodeInvalidRequestStatus)
	}

	controller, err := s.registry.Get(pr.GatewayProvider, pr.GatewayName)
	if err != nil {
		return nil, err
	}

	if err := controller.ValidateTransactionCurrency(pr.Currency); err != nil {
		return nil, err
	}
	if err := gateway.ValidateMinimumTransactionAmount(controller, pr.Currency, pr.Amount); err != nil {
		return nil, err
	}

	allowed, err := gateway.OnPaymentRequestSubmission(controller, gateway.SubmissionData{
		Amount:           pr.Amount,
		Currency:         pr.Currency,
		PayerEmail:       pr.PayerEmail,
		ReferenceDoctype: Doctype,
		ReferenceDocname: pr.Name,
	})
	if err != nil {
		return nil, errors.NewInternalError("gateway submission hook failed", err)
	}
	if !allowed {
		return nil, errors.NewValidationError(
			"the payment gateway declined this payment request",
			errors.ErrCodeSubmissionRejected)
	}

	params := gateway.PaymentURLParams{
		Amount:           pr.Amount,
		Title:            "Payment for " + pr.Name,
		Description:      pr.Description,
		ReferenceDoctype: Doctype,
		ReferenceDocname: pr.Name,
		PayerName:        pr.PayerName,
		PayerEmail:       pr.PayerEmail,
		OrderID:          pr.Name,
		Currency:         pr.Currency,
	}

	paymentURL, err := controller.PaymentURL(params)
	if err != nil {
		return nil, errors.NewInternalError("building the payment url failed", err)
	}

	// Fire and forget: gateways that cannot actively request a payment
	// no-op here, and a failed request does not invalidate the link.
	if err := gateway.RequestForPayment(ctx, controller, params); err != nil {
		s.logger.Warn("request for payment failed",
			"name", pr.Name,
			"error", err)
	}

	if err := s.repo.UpdateStatus(pr.Name, StatusRequested); err != nil {
		return nil, errors.NewInternalError("updating the payment request failed", err)
	}
	pr.Status = StatusRequested

	s.logger.Info("payment request submitted",
		"name", pr.Name,
		"gateway_provider", pr.GatewayProvider,
		"gateway_name", pr.GatewayName)

	resp := toResponse(pr)
	resp.PaymentURL = paymentURL
	return resp, nil
}

func (s *Service) GetByName(name string) (*PaymentRequestResponse, error) {
	pr, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	return toResponse(pr), nil
}

// OnPaymentAuthorized is the post-capture callback. It marks the request
// paid and hands back its success URL, which then replaces the redirect
// target of the checkout flow. Statuses other than Authorized or Completed
// leave the request untouched.
func (s *Service) OnPaymentAuthorized(ctx context.Context, docname, status string) (string, error) {
	if status != "Authorized" && status != "Completed" {
		return "", nil
	}

	pr, err := s.repo.GetByName(docname)
	if err != nil {
		return "", err
	}

	if pr.Status == StatusPaid {
		return pr.SuccessURL, nil
	}

	if err := s.repo.MarkPaid(pr.Name, time.Now()); err != nil {
		return "", err
	}

	s.logger.Info("payment request paid",
		"name", pr.Name,
		"amount", pr.Amount,
		"currency", pr.Currency)

	return pr.SuccessURL, nil
}
