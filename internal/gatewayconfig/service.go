package gatewayconfig

import (
	"context"
	"encoding/json"
	"log/slog"

	errors "github.com/frahmantamala/payment-integration/internal"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/core/events"
	"github.com/frahmantamala/payment-integration/internal/gateway"
)

// SecretStore is the writable secret backend gateway administration needs.
type SecretStore interface {
	Get(ctx context.Context, ref string) (string, error)
	Set(ctx context.Context, ref, value string) error
}

// EventPublisher fans gateway lifecycle changes out to listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     RepositoryAPI
	secrets  SecretStore
	registry *gateway.Registry
	adapters map[string]ProviderAdapter
	events   EventPublisher
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, secrets SecretStore, registry *gateway.Registry, adapters []ProviderAdapter, events EventPublisher, logger *slog.Logger) *Service {
	byProvider := make(map[string]ProviderAdapter, len(adapters))
	for _, adapter := range adapters {
		byProvider[adapter.Provider()] = adapter
	}
	return &Service{
		repo:     repo,
		secrets:  secrets,
		registry: registry,
		adapters: byProvider,
		events:   events,
		logger:   logger,
	}
}

// Save creates or updates a gateway account. The provider must accept the
// secret key before anything is persisted, a save with bad keys changes
// nothing. Enabled accounts are (re)registered immediately.
func (s *Service) Save(ctx context.Context, provider, gatewayName string, dto *SaveGatewayDTO, updatedBy string) (*GatewayResponse, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, errUnknownProvider
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ref := SecretRef(provider, gatewayName)
	secretValue := dto.SecretKey
	if secretValue == "" {
		// Updates may omit the secret key to keep the stored one.
		existing, err := s.repo.GetByName(provider, gatewayName)
		if err != nil {
			return nil, errors.NewValidationError("secret_key is required for a new gateway", errors.ErrCodeValidationFailed)
		}
		ref = existing.SecretKeyRef
		secretValue, err = s.secrets.Get(ctx, ref)
		if err != nil {
			return nil, errors.NewValidationError("secret_key is required, no stored key found", errors.ErrCodeValidationFailed)
		}
	}

	if err := adapter.VerifyCredentials(ctx, secretValue); err != nil {
		return nil, err
	}

	if dto.SecretKey != "" {
		if err := s.secrets.Set(ctx, ref, dto.SecretKey); err != nil {
			return nil, errors.NewInternalError("storing the secret key failed", err)
		}
	}

	cfg := &datamodel.GatewayConfig{
		Provider:            provider,
		GatewayName:         gatewayName,
		PublishableKey:      dto.PublishableKey,
		SecretKeyRef:        ref,
		RedirectOverrideURL: dto.RedirectOverrideURL,
		Enabled:             dto.WantsEnabled(),
		UpdatedBy:           updatedBy,
	}

	if len(dto.SupportedCurrencies) > 0 {
		data, err := json.Marshal(dto.SupportedCurrencies)
		if err != nil {
			return nil, errors.NewInternalError("encoding supported currencies failed", err)
		}
		cfg.SupportedCurrencies = data
	}
	if len(dto.MinimumAmounts) > 0 {
		data, err := json.Marshal(dto.MinimumAmounts)
		if err != nil {
			return nil, errors.NewInternalError("encoding minimum amounts failed", err)
		}
		cfg.MinimumAmounts = data
	}

	if err := s.repo.Upsert(cfg); err != nil {
		return nil, errors.NewInternalError("saving the gateway config failed", err)
	}

	if cfg.Enabled {
		controller, err := adapter.BuildController(cfg)
		if err != nil {
			return nil, errors.NewInternalError("building the gateway controller failed", err)
		}
		s.registry.Register(provider, gatewayName, controller)
		s.publish(ctx, events.NewGatewayEnabledEvent(provider, gatewayName, gateway.ServiceName(provider, gatewayName)))
		s.logger.Info("gateway enabled",
			"provider", provider,
			"gateway", gatewayName,
			"updated_by", updatedBy)
	} else {
		s.registry.Deregister(provider, gatewayName)
		s.logger.Info("gateway disabled",
			"provider", provider,
			"gateway", gatewayName,
			"updated_by", updatedBy)
	}

	return toResponse(cfg)
}

func (s *Service) Get(provider, gatewayName string) (*GatewayResponse, error) {
	cfg, err := s.repo.GetByName(provider, gatewayName)
	if err != nil {
		return nil, errors.ErrGatewayNotFound
	}
	return toResponse(cfg)
}

func (s *Service) List() ([]*GatewayResponse, error) {
	rows, err := s.repo.List()
	if err != nil {
		return nil, errors.NewInternalError("listing gateway configs failed", err)
	}

	out := make([]*GatewayResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := toResponse(row)
		if err != nil {
			return nil, errors.NewInternalError("decoding gateway config failed", err)
		}
		out = append(out, resp)
	}
	return out, nil
}

// LoadAll registers every enabled gateway account at startup. Accounts that
// fail to build are logged and skipped so one broken row cannot keep the
// rest offline.
func (s *Service) LoadAll(ctx context.Context) error {
	rows, err := s.repo.ListEnabled()
	if err != nil {
		return err
	}

	registered := 0
	for _, row := range rows {
		adapter, ok := s.adapters[row.Provider]
		if !ok {
			s.logger.Warn("LoadAll: no adapter for stored provider",
				"provider", row.Provider,
				"gateway", row.GatewayName)
			continue
		}
		controller, err := adapter.BuildController(row)
		if err != nil {
			s.logger.Error("LoadAll: building controller failed",
				"provider", row.Provider,
				"gateway", row.GatewayName,
				"error", err)
			continue
		}
		s.registry.Register(row.Provider, row.GatewayName, controller)
		registered++
	}

	s.logger.Info("gateway registry loaded",
		"stored", len(rows),
		"registered", registered)
	return nil
}

// PaymentURL builds the hosted checkout URL for any registered gateway.
func (s *Service) PaymentURL(provider, gatewayName string, params gateway.PaymentURLParams) (string, error) {
	controller, err := s.registry.Get(provider, gatewayName)
	if err != nil {
		return "", err
	}
	return controller.PaymentURL(params)
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
