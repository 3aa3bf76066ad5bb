package gatewayconfig

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/transport"
	"github.com/frahmantamala/payment-integration/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Save(ctx context.Context, provider, gatewayName string, dto *SaveGatewayDTO, updatedBy string) (*GatewayResponse, error)
	Get(provider, gatewayName string) (*GatewayResponse, error)
	List() ([]*GatewayResponse, error)
	PaymentURL(provider, gatewayName string, params gateway.PaymentURLParams) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

// SaveGateway handles PUT /admin/gateways/{provider}/{gateway}.
func (h *Handler) SaveGateway(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	gatewayName := chi.URLParam(r, "gateway")

	var dto SaveGatewayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SaveGateway: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updatedBy := internal.UserIDFromContext(r.Context())

	resp, err := h.Service.Save(r.Context(), provider, gatewayName, &dto, updatedBy)
	if err != nil {
		h.Logger.Error("SaveGateway: service error",
			"error", err,
			"provider", provider,
			"gateway", gatewayName)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SaveGateway: gateway saved",
		"provider", provider,
		"gateway", gatewayName,
		"enabled", resp.Enabled,
		"updated_by", updatedBy)

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetGateway handles GET /admin/gateways/{provider}/{gateway}.
func (h *Handler) GetGateway(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	gatewayName := chi.URLParam(r, "gateway")

	resp, err := h.Service.Get(provider, gatewayName)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ListGateways handles GET /admin/gateways.
func (h *Handler) ListGateways(w http.ResponseWriter, r *http.Request) {
	gateways, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListGateways: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"gateways": gateways})
}

// PaymentURL handles GET /gateways/{provider}/{gateway}/payment-url. It
// builds the hosted checkout URL from the query string.
func (h *Handler) PaymentURL(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	gatewayName := chi.URLParam(r, "gateway")

	query := r.URL.Query()

	amount := 0.0
	if raw := query.Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		amount = parsed
	}

	params := gateway.PaymentURLParams{
		Amount:           amount,
		Title:            query.Get("title"),
		Description:      query.Get("description"),
		ReferenceDoctype: query.Get("reference_doctype"),
		ReferenceDocname: query.Get("reference_docname"),
		PayerName:        query.Get("payer_name"),
		PayerEmail:       query.Get("payer_email"),
		OrderID:          query.Get("order_id"),
		Currency:         query.Get("currency"),
	}

	paymentURL, err := h.Service.PaymentURL(provider, gatewayName, params)
	if err != nil {
		h.Logger.Error("PaymentURL: service error",
			"error", err,
			"provider", provider,
			"gateway", gatewayName)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"payment_url": paymentURL})
}
