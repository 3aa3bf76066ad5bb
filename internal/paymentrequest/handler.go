package paymentrequest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/payment-integration/internal/transport"
	"github.com/frahmantamala/payment-integration/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto *CreatePaymentRequestDTO) (*PaymentRequestResponse, error)
	Submit(ctx context.Context, name string) (*PaymentRequestResponse, error)
	GetByName(name string) (*PaymentRequestResponse, error)
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

// CreateRequest handles POST /payment-requests.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var dto CreatePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Create(&dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// SubmitRequest handles POST /payment-requests/{name}/submit.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	resp, err := h.Service.Submit(r.Context(), name)
	if err != nil {
		h.Logger.Error("SubmitRequest: service error",
			"error", err,
			"name", name)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetRequest handles GET /payment-requests/{name}.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	resp, err := h.Service.GetByName(name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
