package culqi

import (
	"context"
	"log/slog"
	"net/url"

	errors "github.com/frahmantamala/payment-integration/internal"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
	"github.com/frahmantamala/payment-integration/internal/core/events"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/idempotency"
	"github.com/frahmantamala/payment-integration/internal/requestlog"
)

const serverErrorMessage = "It seems that there is an issue with the server's payment gateway configuration. In case of failure, the amount will get refunded to your account."

// ChargeClient is the slice of the culqi client the charge flow needs.
type ChargeClient interface {
	CreateCharge(ctx context.Context, secretKey string, params ChargeParams) (*ChargeResult, error)
	VerifyCredentials(ctx context.Context, secretKey string) error
}

// RequestLogAPI records charge attempts for audit.
type RequestLogAPI interface {
	Create(serviceName string, payload interface{}, referenceDoctype, referenceDocname string) (*datamodel.RequestLog, error)
	SetStatus(id int64, status string) error
}

// SecretStore resolves stored secret key references.
type SecretStore interface {
	Get(ctx context.Context, ref string) (string, error)
}

// EventPublisher fans payment outcomes out to listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	charges ChargeClient
	logs    RequestLogAPI
	secrets SecretStore
	hooks   *gateway.HookRunner
	guard   idempotency.Guard
	events  EventPublisher
	logger  *slog.Logger
}

// NewService wires the charge flow. guard may be nil, which disables the
// duplicate charge token check.
func NewService(charges ChargeClient, logs RequestLogAPI, secrets SecretStore, hooks *gateway.HookRunner, guard idempotency.Guard, events EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		charges: charges,
		logs:    logs,
		secrets: secrets,
		hooks:   hooks,
		guard:   guard,
		events:  events,
		logger:  logger,
	}
}

// CreateRequest runs one charge attempt end to end, same contract as the
// izipay flow: loud errors before the charge call, a redirect descriptor
// afterwards.
func (s *Service) CreateRequest(ctx context.Context, settings *Settings, attempt *PaymentAttempt) (*gateway.RedirectDescriptor, error) {
	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	if err := settings.ValidateTransactionCurrency(attempt.Currency); err != nil {
		return nil, err
	}
	if err := gateway.ValidateMinimumTransactionAmount(settings, attempt.Currency, attempt.Amount); err != nil {
		return nil, err
	}

	if s.guard != nil {
		used, err := s.guard.Begin(ctx, attempt.Token)
		if err != nil {
			return nil, errors.NewInternalError("duplicate charge guard unavailable", err)
		}
		if used {
			return nil, errors.NewConflictError("this charge token was already used", errors.ErrCodeDuplicateAttempt)
		}
	}

	record, err := s.logs.Create(auditServiceName, attempt, attempt.ReferenceDoctype, attempt.ReferenceDocname)
	if err != nil {
		s.logger.Error("CreateRequest: audit record creation failed",
			"error", err,
			"gateway", settings.GatewayName)
		return serverErrorDescriptor(), nil
	}

	secretKey, err := s.secrets.Get(ctx, settings.SecretKeyRef)
	if err != nil {
		s.logger.Error("CreateRequest: secret key resolution failed",
			"error", err,
			"gateway", settings.GatewayName,
			"request_log_id", record.ID)
		s.publish(ctx, events.NewChargeErroredEvent(record.ID, Provider, attempt.Amount, attempt.Currency, "secret key resolution failed"))
		return serverErrorDescriptor(), nil
	}

	result, err := s.charges.CreateCharge(ctx, secretKey, ChargeParams{
		AmountMinorUnits: int64(attempt.Amount * 100),
		CurrencyCode:     attempt.Currency,
		SourceToken:      attempt.Token,
		Email:            attempt.PayerEmail,
		Description:      attempt.Description,
	})
	if err != nil {
		s.logger.Error("CreateRequest: charge call failed",
			"error", err,
			"gateway", settings.GatewayName,
			"request_log_id", record.ID)
		s.publish(ctx, events.NewChargeErroredEvent(record.ID, Provider, attempt.Amount, attempt.Currency, err.Error()))
		return serverErrorDescriptor(), nil
	}

	status := record.Status
	statusChanged := false

	if result.Captured {
		if err := s.logs.SetStatus(record.ID, requestlog.StatusCompleted); err != nil {
			s.logger.Error("CreateRequest: marking audit record completed failed",
				"error", err,
				"request_log_id", record.ID)
		} else {
			status = requestlog.StatusCompleted
			statusChanged = true
			s.completeGuard(ctx, attempt.Token)
			s.publish(ctx, events.NewPaymentCapturedEvent(record.ID, Provider, result.ID, attempt.Amount, attempt.Currency, attempt.ReferenceDoctype, attempt.ReferenceDocname))
		}
	} else {
		s.logger.Error("CreateRequest: payment not completed",
			"failure_message", result.FailureMessage,
			"request_log_id", record.ID)
		s.publish(ctx, events.NewPaymentCaptureFailedEvent(record.ID, Provider, result.ID, attempt.Amount, attempt.Currency, result.FailureMessage))
	}

	return s.finalizeRequest(ctx, settings, attempt, record.ID, status, statusChanged), nil
}

func (s *Service) finalizeRequest(ctx context.Context, settings *Settings, attempt *PaymentAttempt, recordID int64, status string, statusChanged bool) *gateway.RedirectDescriptor {
	redirectTo := attempt.RedirectTo

	if statusChanged && s.hooks != nil && attempt.ReferenceDoctype != "" && attempt.ReferenceDocname != "" {
		custom, err := s.hooks.Run(ctx, attempt.ReferenceDoctype, attempt.ReferenceDocname, status)
		if err != nil {
			s.logger.Error("finalizeRequest: payment authorized hook failed",
				"error", err,
				"reference_doctype", attempt.ReferenceDoctype,
				"reference_docname", attempt.ReferenceDocname)
			s.publish(ctx, events.NewPaymentHookFailedEvent(recordID, attempt.ReferenceDoctype, attempt.ReferenceDocname, err.Error()))
		} else if custom != "" {
			redirectTo = custom
		}
	}

	redirectURL := gateway.BuildRedirectURL(gateway.RedirectParams{
		StatusChangedToCompleted: statusChanged,
		RedirectTo:               redirectTo,
		RedirectMessage:          attempt.RedirectMessage,
		ReferenceDoctype:         attempt.ReferenceDoctype,
		ReferenceDocname:         attempt.ReferenceDocname,
		RedirectOverrideURL:      settings.RedirectOverrideURL,
	})

	return &gateway.RedirectDescriptor{
		RedirectTo: redirectURL,
		Status:     status,
	}
}

func (s *Service) completeGuard(ctx context.Context, token string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Complete(ctx, token); err != nil {
		s.logger.Error("completeGuard: marking charge token completed failed", "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("publish event failed",
			"error", err,
			"event_type", event.EventType())
	}
}

func serverErrorDescriptor() *gateway.RedirectDescriptor {
	return &gateway.RedirectDescriptor{
		RedirectTo: "payment-error?" + url.Values{
			"title":   {"Server Error"},
			"message": {serverErrorMessage},
		}.Encode(),
		Status: "401",
	}
}
