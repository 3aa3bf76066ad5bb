package requestlog

import (
	"net/http"
	"strconv"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
	"github.com/frahmantamala/payment-integration/internal/transport"
	"github.com/frahmantamala/payment-integration/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(id int64) (*datamodel.RequestLog, error)
	List(limit, offset int) ([]*datamodel.RequestLog, error)
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

// ListLogs handles GET /admin/request-logs.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	logs, err := h.Service.List(limit, offset)
	if err != nil {
		h.Logger.Error("ListLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	out := make([]*RequestLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, toResponse(log))
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"request_logs": out})
}

// GetLog handles GET /admin/request-logs/{id}.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request log id")
		return
	}

	log, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toResponse(log))
}
