package izipay

import (
	"context"
	"encoding/json"
	"net/http"

	errors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/transport"
	"github.com/frahmantamala/payment-integration/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRequest(ctx context.Context, settings *Settings, attempt *PaymentAttempt) (*gateway.RedirectDescriptor, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Registry *gateway.Registry
}

func NewHandler(service ServiceAPI, registry *gateway.Registry) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
		Registry:    registry,
	}
}

// Checkout handles the charge callback from the hosted checkout page. The
// response body is always a redirect descriptor when the attempt got past
// validation, whatever happened to the charge itself.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	gatewayName := chi.URLParam(r, "gateway")

	settings, err := h.resolveSettings(gatewayName)
	if err != nil {
		h.Logger.Error("Checkout: gateway lookup failed", "gateway", gatewayName, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	var attempt PaymentAttempt
	if err := json.NewDecoder(r.Body).Decode(&attempt); err != nil {
		h.Logger.Error("Checkout: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	descriptor, err := h.Service.CreateRequest(r.Context(), settings, &attempt)
	if err != nil {
		h.Logger.Error("Checkout: service error", "error", err, "gateway", gatewayName)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Checkout: attempt finished",
		"gateway", gatewayName,
		"status", descriptor.Status)

	h.WriteJSON(w, http.StatusOK, descriptor)
}

// resolveSettings finds the named Izipay account in the registry. A name
// registered by another provider is as good as absent.
func (h *Handler) resolveSettings(gatewayName string) (*Settings, error) {
	controller, err := h.Registry.Get(Provider, gatewayName)
	if err != nil {
		return nil, err
	}
	settings, ok := controller.(*Settings)
	if !ok {
		return nil, errors.ErrGatewayNotFound
	}
	return settings, nil
}
